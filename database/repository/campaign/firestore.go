package campaignRepo

import (
	"context"
	"fmt"
	"time"

	"campusconnect/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore returns a Store backed by Cloud Firestore.
func NewFirestoreStore(client *firestore.Client) Store {
	return &firestoreStore{client: client}
}

func (s *firestoreStore) campaigns() *firestore.CollectionRef {
	return s.client.Collection(CampaignsCollection)
}

func (s *firestoreStore) Create(ctx context.Context, campaign models.Campaign) (*models.Campaign, error) {
	ref := s.campaigns().NewDoc()
	campaign.ID = ref.ID
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now().UTC()
	}
	if campaign.Likes == nil {
		campaign.Likes = []string{}
	}
	if _, err := ref.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &campaign, nil
}

func (s *firestoreStore) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	snap, err := s.campaigns().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreErr(err)
	}
	var c models.Campaign
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode campaign %s: %w", id, err)
	}
	c.ID = snap.Ref.ID
	c.Normalize()
	return &c, nil
}

func (s *firestoreStore) List(ctx context.Context, limit int) ([]models.Campaign, error) {
	docs, err := s.campaigns().
		OrderBy("createdAt", firestore.Desc).
		Limit(clampLimit(limit)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	out := make([]models.Campaign, 0, len(docs))
	for _, doc := range docs {
		var c models.Campaign
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode campaign %s: %w", doc.Ref.ID, err)
		}
		c.ID = doc.Ref.ID
		c.Normalize()
		out = append(out, c)
	}
	return out, nil
}

func (s *firestoreStore) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	ref := s.campaigns().Doc(id)
	var liked bool
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var c models.Campaign
		if err := snap.DataTo(&c); err != nil {
			return err
		}
		if c.LikedBy(userID) {
			liked = false
			return tx.Update(ref, []firestore.Update{{Path: "likes", Value: firestore.ArrayRemove(userID)}})
		}
		liked = true
		return tx.Update(ref, []firestore.Update{{Path: "likes", Value: firestore.ArrayUnion(userID)}})
	})
	if err != nil {
		return false, mapFirestoreErr(err)
	}
	return liked, nil
}

func (s *firestoreStore) SetImage(ctx context.Context, id, imageURL string) error {
	_, err := s.campaigns().Doc(id).Update(ctx, []firestore.Update{{Path: "imageUrl", Value: imageURL}})
	if err != nil {
		return mapFirestoreErr(err)
	}
	return nil
}

func (s *firestoreStore) ListDonations(ctx context.Context, campaignID string, limit int) ([]models.Donation, error) {
	docs, err := s.campaigns().Doc(campaignID).Collection(DonationsCollection).
		OrderBy("timestamp", firestore.Desc).
		Limit(clampLimit(limit)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	out := make([]models.Donation, 0, len(docs))
	for _, doc := range docs {
		var d models.Donation
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to decode donation %s: %w", doc.Ref.ID, err)
		}
		d.ID = doc.Ref.ID
		d.CampaignID = campaignID
		out = append(out, d)
	}
	return out, nil
}

// CommitDonation applies both ledger writes in one transaction. The counters use
// server-side increments so concurrent donors never lose an update; the raised
// counter is whichever of raised or raisedAmount the document carries.
func (s *firestoreStore) CommitDonation(ctx context.Context, commit models.DonationCommit) (*models.Donation, error) {
	campaignRef := s.campaigns().Doc(commit.CampaignID)
	donationRef := campaignRef.Collection(DonationsCollection).NewDoc()
	donation := newDonation(commit)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(campaignRef)
		if err != nil {
			return err
		}
		if err := tx.Update(campaignRef, []firestore.Update{
			{Path: raisedPath(snap.Data()), Value: firestore.Increment(commit.Amount)},
			{Path: "donations", Value: firestore.Increment(1)},
		}); err != nil {
			return err
		}
		return tx.Create(donationRef, donation)
	})
	if err != nil {
		return nil, mapFirestoreErr(err)
	}

	donation.ID = donationRef.ID
	donation.Timestamp = time.Now().UTC()
	return &donation, nil
}

func mapFirestoreErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrCampaignNotFound
	}
	return err
}

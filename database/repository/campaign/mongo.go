package campaignRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusconnect/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	client    *mongo.Client
	campaigns *mongo.Collection
	donations *mongo.Collection
}

// NewMongoStore returns a Store backed by MongoDB. Ledger commits need a
// replica set because they run inside a multi-document transaction.
func NewMongoStore(client *mongo.Client, dbName string) Store {
	db := client.Database(dbName)
	return &mongoStore{
		client:    client,
		campaigns: db.Collection(CampaignsCollection),
		donations: db.Collection(DonationsCollection),
	}
}

func (s *mongoStore) Create(ctx context.Context, campaign models.Campaign) (*models.Campaign, error) {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now().UTC()
	}
	if campaign.Likes == nil {
		campaign.Likes = []string{}
	}
	if _, err := s.campaigns.InsertOne(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return &campaign, nil
}

func (s *mongoStore) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	err := s.campaigns.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Normalize()
	return &c, nil
}

func (s *mongoStore) List(ctx context.Context, limit int) ([]models.Campaign, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := s.campaigns.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	campaigns := []models.Campaign{}
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	for i := range campaigns {
		campaigns[i].Normalize()
	}
	return campaigns, nil
}

// ToggleLike first tries to add the user; if nothing changed the user was
// already a liker and is removed instead.
func (s *mongoStore) ToggleLike(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.campaigns.UpdateOne(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	res, err = s.campaigns.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrCampaignNotFound
	}
	return false, nil
}

func (s *mongoStore) SetImage(ctx context.Context, id, imageURL string) error {
	res, err := s.campaigns.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"imageUrl": imageURL}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

func (s *mongoStore) ListDonations(ctx context.Context, campaignID string, limit int) ([]models.Donation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := s.donations.Find(ctx, bson.M{"campaignId": campaignID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer cursor.Close(ctx)

	donations := []models.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *mongoStore) CommitDonation(ctx context.Context, commit models.DonationCommit) (*models.Donation, error) {
	donation := newDonation(commit)
	donation.ID = uuid.New().String()
	donation.Timestamp = time.Now().UTC()

	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start ledger session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc bson.M
		err := s.campaigns.FindOne(sc,
			bson.M{"_id": commit.CampaignID},
			options.FindOne().SetProjection(bson.M{raisedField: 1, legacyRaisedField: 1}),
		).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCampaignNotFound
		}
		if err != nil {
			return nil, err
		}
		res, err := s.campaigns.UpdateOne(sc,
			bson.M{"_id": commit.CampaignID},
			bson.M{"$inc": bson.M{raisedPath(doc): commit.Amount, "donations": 1}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrCampaignNotFound
		}
		if _, err := s.donations.InsertOne(sc, donation); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

package campaignRepo

import (
	"context"
	"errors"

	"campusconnect/models"
)

const (
	CampaignsCollection = "campaigns"
	DonationsCollection = "donations"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignRepository covers the campaign document and its donation history.
type CampaignRepository interface {
	Create(ctx context.Context, campaign models.Campaign) (*models.Campaign, error)
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	List(ctx context.Context, limit int) ([]models.Campaign, error)
	// ToggleLike adds userID to the likers set or removes it, returning the new state.
	ToggleLike(ctx context.Context, id, userID string) (bool, error)
	SetImage(ctx context.Context, id, imageURL string) error
	ListDonations(ctx context.Context, campaignID string, limit int) ([]models.Donation, error)
}

// Ledger commits confirmed donations. Each call increments the campaign's
// raised amount and donation count and appends one donation record. The
// increments use the store's atomic primitive, never read-modify-write.
type Ledger interface {
	CommitDonation(ctx context.Context, commit models.DonationCommit) (*models.Donation, error)
}

// Store is a backend that provides both.
type Store interface {
	CampaignRepository
	Ledger
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}

func newDonation(commit models.DonationCommit) models.Donation {
	outcome := commit.Outcome
	if outcome == "" {
		outcome = models.OutcomeSelfReported
	}
	return models.Donation{
		CampaignID:    commit.CampaignID,
		DonorID:       commit.DonorID,
		DonorName:     commit.DonorName,
		Amount:        commit.Amount,
		Message:       commit.Message,
		PaymentMethod: models.PaymentMethodUPI,
		TransactionID: commit.TransactionID,
		Outcome:       outcome,
	}
}

const (
	raisedField       = "raised"
	legacyRaisedField = "raisedAmount"
)

// raisedPath names the counter a stored campaign document actually carries.
func raisedPath(doc map[string]interface{}) string {
	if _, ok := doc[raisedField]; ok {
		return raisedField
	}
	if _, ok := doc[legacyRaisedField]; ok {
		return legacyRaisedField
	}
	return raisedField
}

package campaign

import (
	"context"
	"fmt"
	"io"

	campaignRepo "campusconnect/database/repository/campaign"
	"campusconnect/models"
	"campusconnect/services/storage"

	"go.uber.org/zap"
)

type CampaignService interface {
	CreateCampaign(ctx context.Context, organizer models.Identity, req models.CreateCampaignRequest) (*models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, limit int) ([]models.Campaign, error)
	ToggleLike(ctx context.Context, id, userID string) (*LikeResult, error)
	ListDonations(ctx context.Context, id string, limit int) ([]models.Donation, error)
	UploadImage(ctx context.Context, id, userID string, file io.Reader) (string, error)
}

// LikeResult is the like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// DefaultCampaignService is the production implementation.
type DefaultCampaignService struct {
	repo   campaignRepo.CampaignRepository
	images storage.ImageStore
	logger *zap.Logger
}

// NewDefaultCampaignService wires the service. images may be nil, in which
// case uploads are rejected.
func NewDefaultCampaignService(repo campaignRepo.CampaignRepository, images storage.ImageStore, logger *zap.Logger) (*DefaultCampaignService, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaign service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCampaignService{repo: repo, images: images, logger: logger}, nil
}

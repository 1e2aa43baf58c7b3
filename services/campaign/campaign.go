package campaign

import (
	"context"
	"fmt"
	"io"
	"strings"

	"campusconnect/models"
	"campusconnect/services/upi"

	"go.uber.org/zap"
)

const imageFolder = "campaigns"

func (s *DefaultCampaignService) CreateCampaign(ctx context.Context, organizer models.Identity, req models.CreateCampaignRequest) (*models.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidCampaign)
	}
	if req.Target <= 0 {
		return nil, fmt.Errorf("%w: target must be a positive amount", ErrInvalidCampaign)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCampaign, req.Category)
	}
	upiID := strings.TrimSpace(req.UPIID)
	if upiID != "" && !upi.ValidatePayeeAddress(upiID) {
		return nil, fmt.Errorf("%w: UPI ID is not a valid payee address", ErrInvalidCampaign)
	}

	created, err := s.repo.Create(ctx, models.Campaign{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Target:       req.Target,
		Category:     req.Category,
		CreatedBy:    organizer.UID,
		CreatorName:  organizer.Name(),
		CreatorPhoto: organizer.PhotoURL,
		UPIID:        upiID,
		Likes:        []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	s.logger.Info("campaign created", zap.String("campaignId", created.ID), zap.String("organizerId", organizer.UID))
	return created, nil
}

func (s *DefaultCampaignService) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %s: %w", id, err)
	}
	return c, nil
}

func (s *DefaultCampaignService) ListCampaigns(ctx context.Context, limit int) ([]models.Campaign, error) {
	list, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return list, nil
}

func (s *DefaultCampaignService) ToggleLike(ctx context.Context, id, userID string) (*LikeResult, error) {
	liked, err := s.repo.ToggleLike(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like on %s: %w", id, err)
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload campaign %s: %w", id, err)
	}
	return &LikeResult{Liked: liked, Likes: len(c.Likes)}, nil
}

// ListDonations returns the newest donations first.
func (s *DefaultCampaignService) ListDonations(ctx context.Context, id string, limit int) ([]models.Donation, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get campaign %s: %w", id, err)
	}
	list, err := s.repo.ListDonations(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations for %s: %w", id, err)
	}
	return list, nil
}

// UploadImage replaces the campaign image. Only the organizer may do this.
func (s *DefaultCampaignService) UploadImage(ctx context.Context, id, userID string, file io.Reader) (string, error) {
	if s.images == nil {
		return "", ErrStorageUnavailable
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get campaign %s: %w", id, err)
	}
	if c.CreatedBy != userID {
		return "", ErrNotOrganizer
	}

	url, err := s.images.UploadImage(ctx, file, imageFolder, id)
	if err != nil {
		return "", fmt.Errorf("failed to upload image for %s: %w", id, err)
	}
	if err := s.repo.SetImage(ctx, id, url); err != nil {
		return "", fmt.Errorf("failed to save image for %s: %w", id, err)
	}
	return url, nil
}

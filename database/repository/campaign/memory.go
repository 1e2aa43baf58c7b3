package campaignRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusconnect/models"

	"github.com/google/uuid"
)

// MemoryStore keeps campaigns in process. It backs STORE_BACKEND=memory and
// the tests; both ledger writes happen under one lock.
type MemoryStore struct {
	mu        sync.Mutex
	campaigns map[string]*models.Campaign
	donations map[string][]models.Donation
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		campaigns: make(map[string]*models.Campaign),
		donations: make(map[string][]models.Donation),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, campaign models.Campaign) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = s.now()
	}
	if campaign.Likes == nil {
		campaign.Likes = []string{}
	}
	stored := copyCampaign(campaign)
	s.campaigns[campaign.ID] = &stored
	return &campaign, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	out := copyCampaign(*c)
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, copyCampaign(*c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) ToggleLike(_ context.Context, id, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return false, ErrCampaignNotFound
	}
	for i, liker := range c.Likes {
		if liker == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return false, nil
		}
	}
	c.Likes = append(c.Likes, userID)
	return true, nil
}

func (s *MemoryStore) SetImage(_ context.Context, id, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return ErrCampaignNotFound
	}
	c.ImageURL = imageURL
	return nil
}

func (s *MemoryStore) ListDonations(_ context.Context, campaignID string, limit int) ([]models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.donations[campaignID]
	out := make([]models.Donation, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) CommitDonation(_ context.Context, commit models.DonationCommit) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[commit.CampaignID]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	c.Raised += commit.Amount
	c.Donations++

	donation := newDonation(commit)
	donation.ID = uuid.New().String()
	donation.Timestamp = s.now()
	s.donations[commit.CampaignID] = append(s.donations[commit.CampaignID], donation)
	return &donation, nil
}

func copyCampaign(c models.Campaign) models.Campaign {
	c.Likes = append([]string{}, c.Likes...)
	return c
}

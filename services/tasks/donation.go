package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusconnect/models"

	"github.com/hibiken/asynq"
)

const TypeDonationReceived = "donation:received"

func NewDonationReceivedTask(payload models.DonationReceivedPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDonationReceived, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}

	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DonationEnqueuer queues an organizer notification for each committed donation.
type DonationEnqueuer struct {
	client Enqueuer
}

func NewDonationEnqueuer(client Enqueuer) *DonationEnqueuer {
	return &DonationEnqueuer{client: client}
}

func (e *DonationEnqueuer) DonationCommitted(ctx context.Context, campaign models.Campaign, donation models.Donation) error {
	// Organizers donating to their own campaign are not notified.
	if campaign.CreatedBy == "" || campaign.CreatedBy == donation.DonorID {
		return nil
	}

	task, opts, err := NewDonationReceivedTask(models.DonationReceivedPayload{
		CampaignID:    campaign.ID,
		CampaignTitle: campaign.Title,
		OrganizerID:   campaign.CreatedBy,
		DonorName:     donation.DonorName,
		Amount:        donation.Amount,
	})
	if err != nil {
		return fmt.Errorf("failed to build donation task: %w", err)
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue donation task: %w", err)
	}
	return nil
}

package tasks

import (
	"context"
	"encoding/json"
	"testing"

	"campusconnect/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
}

func (c *captureEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestDonationCommittedEnqueuesTask(t *testing.T) {
	q := &captureEnqueuer{}
	e := NewDonationEnqueuer(q)

	campaign := models.Campaign{ID: "c1", Title: "Library books", CreatedBy: "organizer-1"}
	donation := models.Donation{DonorID: "donor-1", DonorName: "Ravi", Amount: 500}
	require.NoError(t, e.DonationCommitted(context.Background(), campaign, donation))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeDonationReceived, q.tasks[0].Type())

	var p models.DonationReceivedPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, models.DonationReceivedPayload{
		CampaignID:    "c1",
		CampaignTitle: "Library books",
		OrganizerID:   "organizer-1",
		DonorName:     "Ravi",
		Amount:        500,
	}, p)
}

func TestSelfDonationIsNotQueued(t *testing.T) {
	q := &captureEnqueuer{}
	e := NewDonationEnqueuer(q)

	campaign := models.Campaign{ID: "c1", CreatedBy: "organizer-1"}
	require.NoError(t, e.DonationCommitted(context.Background(), campaign, models.Donation{DonorID: "organizer-1", Amount: 20}))
	assert.Empty(t, q.tasks)
}

package cron

import (
	"context"
	"errors"
	"testing"

	"campusconnect/models"
	"campusconnect/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	got []models.DonationReceivedPayload
	err error
}

func (r *recordingNotifier) NotifyDonationReceived(_ context.Context, p models.DonationReceivedPayload) error {
	r.got = append(r.got, p)
	return r.err
}

func TestHandleDonationReceived(t *testing.T) {
	n := &recordingNotifier{}
	handler := handleDonationReceived(n, zap.NewNop())

	payload := models.DonationReceivedPayload{CampaignID: "c1", OrganizerID: "o1", DonorName: "Ravi", Amount: 300}
	task, _, err := tasks.NewDonationReceivedTask(payload)
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Equal(t, []models.DonationReceivedPayload{payload}, n.got)
}

func TestHandleDonationReceivedBadPayloadSkipsRetry(t *testing.T) {
	handler := handleDonationReceived(&recordingNotifier{}, zap.NewNop())
	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeDonationReceived, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleDonationReceivedReturnsNotifierError(t *testing.T) {
	boom := errors.New("fcm down")
	handler := handleDonationReceived(&recordingNotifier{err: boom}, zap.NewNop())
	task, _, err := tasks.NewDonationReceivedTask(models.DonationReceivedPayload{OrganizerID: "o1"})
	require.NoError(t, err)
	assert.ErrorIs(t, handler.ProcessTask(context.Background(), task), boom)
}

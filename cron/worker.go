package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusconnect/config"
	"campusconnect/models"
	"campusconnect/services/notification"
	"campusconnect/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DonationNotifier is the notification call the worker makes.
type DonationNotifier interface {
	NotifyDonationReceived(ctx context.Context, payload models.DonationReceivedPayload) error
}

var _ DonationNotifier = (notification.NotificationService)(nil)

// QueueRedisOpt is the asynq connection for the donation queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitDonationWorker runs the async worker in background. The caller stops it
// with Shutdown.
func InitDonationWorker(notifier DonationNotifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDonationReceived, handleDonationReceived(notifier, logger))

	go func() {
		logger.Info("starting donation worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("donation worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("donation worker gave up; organizer notifications are paused")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()

	return srv
}

func handleDonationReceived(notifier DonationNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DonationReceivedPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid donation task payload", zap.Error(err))
			return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := notifier.NotifyDonationReceived(ctx, p); err != nil {
			logger.Warn("failed to notify organizer",
				zap.String("campaignId", p.CampaignID),
				zap.String("organizerId", p.OrganizerID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}

package notification

import (
	"context"
	"errors"
	"fmt"

	"campusconnect/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNoPushTarget means the user has no registered device token.
var ErrNoPushTarget = errors.New("user has no FCM token")

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	NotifyDonationReceived(ctx context.Context, payload models.DonationReceivedPayload) error
}

// Sender delivers one FCM message. *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// TokenLookup resolves a user's FCM registration token.
type TokenLookup interface {
	FCMToken(ctx context.Context, userID string) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	tokens TokenLookup
	sender Sender
	logger *zap.Logger
}

func NewDefaultNotificationService(tokens TokenLookup, sender Sender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if tokens == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: token lookup or sender is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{
		tokens: tokens,
		sender: sender,
		logger: logger,
	}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push.
func (s *DefaultNotificationService) SendUserPushNotification(
	ctx context.Context,
	userID, title, body string,
	data map[string]string,
) error {
	token, err := s.tokens.FCMToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", userID, err)
	}
	if token == "" {
		return fmt.Errorf("SendUserPushNotification: user %s: %w", userID, ErrNoPushTarget)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "donations",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	response, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}

	s.logger.Debug("push notification sent", zap.String("userId", userID), zap.String("messageId", response))
	return nil
}

// NotifyDonationReceived tells the organizer about a committed donation. An
// organizer without a device token is skipped silently.
func (s *DefaultNotificationService) NotifyDonationReceived(ctx context.Context, p models.DonationReceivedPayload) error {
	if p.OrganizerID == "" {
		return nil
	}
	title := "New donation received"
	body := fmt.Sprintf("%s donated ₹%d to %s", donorLabel(p.DonorName), p.Amount, p.CampaignTitle)
	data := map[string]string{
		"type":       "donation_received",
		"campaignId": p.CampaignID,
		"amount":     fmt.Sprintf("%d", p.Amount),
	}

	err := s.SendUserPushNotification(ctx, p.OrganizerID, title, body, data)
	if errors.Is(err, ErrNoPushTarget) {
		s.logger.Debug("organizer has no push target", zap.String("organizerId", p.OrganizerID))
		return nil
	}
	return err
}

func donorLabel(name string) string {
	if name == "" {
		return "Someone"
	}
	return name
}

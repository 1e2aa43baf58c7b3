package notification

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// FirestoreTokenLookup reads fcmToken from users/{id}.
type FirestoreTokenLookup struct {
	client *firestore.Client
}

func NewFirestoreTokenLookup(client *firestore.Client) *FirestoreTokenLookup {
	return &FirestoreTokenLookup{client: client}
}

func (l *FirestoreTokenLookup) FCMToken(ctx context.Context, userID string) (string, error) {
	doc, err := l.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNoPushTarget
		}
		return "", fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	v, err := doc.DataAt("fcmToken")
	if err != nil {
		return "", ErrNoPushTarget
	}
	token, _ := v.(string)
	return token, nil
}

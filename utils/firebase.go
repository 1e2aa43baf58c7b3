// utils/firebase.go
package utils

import (
	"context"
	"log"

	"campusconnect/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirestoreClient *firestore.Client
	AuthClient      *auth.Client
	FCMClient       *messaging.Client
)

// FirebaseInit initializes the Firebase App and its Firestore, Auth and Messaging clients.
func FirebaseInit() {
	ctx := context.Background()

	var conf *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	var opts []option.ClientOption
	if path := config.AppConfig.FirebaseCredentialsFile; path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	FirestoreClient, err = app.Firestore(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Firestore client: %v", err)
	}

	AuthClient, err = app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}

	FCMClient, err = app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
}

// FirebaseClose releases the Firestore connection.
func FirebaseClose() {
	if FirestoreClient != nil {
		if err := FirestoreClient.Close(); err != nil {
			log.Printf("firebase: error closing Firestore client: %v", err)
		}
	}
}

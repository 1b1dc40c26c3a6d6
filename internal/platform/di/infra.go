// internal/platform/di/infra.go
package di

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"karwaan/internal/infra/config"
)

// Infra owns every external client. Built once at boot, closed on shutdown.
type Infra struct {
	Firestore    *firestore.Client
	Storage      *storage.Client
	FirebaseAuth *firebaseauth.Client
	Secrets      *secretmanager.Client
}

func NewInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	if cfg.FirestoreProjectID == "" {
		return nil, fmt.Errorf("firestore project id is not configured")
	}

	var fsOpts []option.ClientOption
	if cfg.FirestoreCredentialsFile != "" {
		fsOpts = append(fsOpts, option.WithCredentialsFile(cfg.FirestoreCredentialsFile))
	}
	fs, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, fsOpts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	log.Printf("[boot] firestore client ready project=%s", cfg.FirestoreProjectID)

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("storage client: %w", err)
	}
	log.Printf("[boot] storage client ready bucket=%s", cfg.MediaBucket)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		fs.Close()
		gcs.Close()
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	fbAuth, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		gcs.Close()
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	log.Printf("[boot] firebase auth ready project=%s", cfg.FirebaseProjectID)

	sm, err := secretmanager.NewClient(ctx)
	if err != nil {
		// secret manager is optional: env-provided gateway credentials still work
		log.Printf("[boot] secret manager unavailable, falling back to env: %v", err)
		sm = nil
	}

	return &Infra{
		Firestore:    fs,
		Storage:      gcs,
		FirebaseAuth: fbAuth,
		Secrets:      sm,
	}, nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.Firestore != nil {
		if err := i.Firestore.Close(); err != nil {
			log.Printf("[shutdown] firestore close: %v", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Close(); err != nil {
			log.Printf("[shutdown] storage close: %v", err)
		}
	}
	if i.Secrets != nil {
		if err := i.Secrets.Close(); err != nil {
			log.Printf("[shutdown] secret manager close: %v", err)
		}
	}
}

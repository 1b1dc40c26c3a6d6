// internal/platform/di/container.go
package di

import (
	"context"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	inhttp "karwaan/internal/adapters/in/http"
	"karwaan/internal/adapters/in/http/handlers"
	"karwaan/internal/adapters/in/http/middleware"
	fsrepo "karwaan/internal/adapters/out/firestore"
	"karwaan/internal/adapters/out/gcs"
	outhttp "karwaan/internal/adapters/out/http"
	"karwaan/internal/application/query"
	"karwaan/internal/application/usecase"
	"karwaan/internal/infra/config"
)

// firebaseVerifier adapts the Firebase auth client to middleware.TokenVerifier.
type firebaseVerifier struct {
	auth *firebaseauth.Client
}

func (v firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (middleware.VerifiedToken, error) {
	tok, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return middleware.VerifiedToken{}, err
	}
	email := ""
	if e, ok := tok.Claims["email"].(string); ok {
		email = strings.TrimSpace(e)
	}
	return middleware.VerifiedToken{
		UID:    tok.UID,
		Email:  email,
		Claims: tok.Claims,
	}, nil
}

// Register wires repositories, usecases, queries and handlers onto mux.
func Register(ctx context.Context, mux *http.ServeMux, cfg *config.Config, infra *Infra) {
	productRepo := fsrepo.NewProductRepositoryFS(infra.Firestore)
	metadataRepo := fsrepo.NewProductMediaMetadataRepositoryFS(infra.Firestore)
	orderRepo := fsrepo.NewOrderRepositoryFS(infra.Firestore)
	userRepo := fsrepo.NewUserRepositoryFS(infra.Firestore)

	mediaStore := gcs.NewProductMediaRepositoryGCS(infra.Storage, cfg.MediaBucket)
	if cfg.MediaPublicBaseURL != "" {
		mediaStore.PublicBaseURL = cfg.MediaPublicBaseURL
	}

	gateway := outhttp.NewRazorpayClient(
		cfg.RazorpayBaseURL,
		cfg.RazorpayKeyID,
		resolveRazorpaySecret(ctx, cfg, infra.Secrets),
	)

	productUC := usecase.NewProductUsecase(productRepo, metadataRepo, mediaStore, usecase.ProductUsecaseOptions{
		UploadTimeout: cfg.MediaUploadTimeout,
		AwaitUpload:   cfg.MediaUploadAwait,
	})
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, gateway)
	reports := query.NewReportQuery(orderRepo, productRepo, userRepo, cfg.ReportTimeout)

	router := &inhttp.Router{
		Products: handlers.NewProductHandler(productUC),
		Orders:   handlers.NewOrderHandler(orderUC),
		Admin:    handlers.NewAdminHandler(reports),
		Auth:     &middleware.AuthMiddleware{Verifier: firebaseVerifier{auth: infra.FirebaseAuth}},
	}
	router.Register(mux)
}

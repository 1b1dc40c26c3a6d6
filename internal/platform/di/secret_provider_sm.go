// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"karwaan/internal/infra/config"
)

// resolveRazorpaySecret prefers Secret Manager when RAZORPAY_SECRET_NAME is
// set, falling back to the RAZORPAY_KEY_SECRET env value otherwise.
func resolveRazorpaySecret(ctx context.Context, cfg *config.Config, sm *secretmanager.Client) string {
	secretName := strings.TrimSpace(cfg.RazorpaySecretName)
	if secretName == "" || sm == nil {
		return cfg.RazorpayKeySecret
	}
	prj := strings.TrimSpace(cfg.FirestoreProjectID)
	if prj == "" {
		return cfg.RazorpayKeySecret
	}

	name := "projects/" + prj + "/secrets/" + secretName + "/versions/latest"
	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil || resp == nil || resp.Payload == nil {
		log.Printf("[boot] AccessSecretVersion failed (%s), falling back to env: %v", name, err)
		return cfg.RazorpayKeySecret
	}
	return strings.TrimSpace(string(resp.Payload.Data))
}

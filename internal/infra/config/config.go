// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment-driven settings for the whole service.
type Config struct {
	Port string

	FirestoreProjectID       string
	FirestoreCredentialsFile string
	GCPCreds                 string

	FirebaseProjectID string

	MediaBucket        string
	MediaPublicBaseURL string
	MediaUploadTimeout time.Duration
	MediaUploadAwait   bool

	RazorpayBaseURL    string
	RazorpayKeyID      string
	RazorpayKeySecret  string
	RazorpaySecretName string

	ReportTimeout time.Duration

	CORSAllowedOrigin string
}

// Load reads the environment once at boot.
func Load() *Config {
	defaultProject := firstEnv("GCP_PROJECT_ID", "GOOGLE_CLOUD_PROJECT")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		MediaBucket:        os.Getenv("MEDIA_BUCKET"),
		MediaPublicBaseURL: os.Getenv("MEDIA_PUBLIC_BASE_URL"),
		MediaUploadTimeout: getenvDuration("MEDIA_UPLOAD_TIMEOUT", 60*time.Second),
		MediaUploadAwait:   getenvBool("MEDIA_UPLOAD_AWAIT", false),

		RazorpayBaseURL:    os.Getenv("RAZORPAY_BASE_URL"),
		RazorpayKeyID:      os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:  os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpaySecretName: os.Getenv("RAZORPAY_SECRET_NAME"),

		ReportTimeout: getenvDuration("REPORT_TIMEOUT", 10*time.Second),

		CORSAllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

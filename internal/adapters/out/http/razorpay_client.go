// internal/adapters/out/http/razorpay_client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"karwaan/internal/application/usecase"
)

// RazorpayClient looks up payment states over Razorpay's REST API.
// Implements usecase.PaymentGateway.
type RazorpayClient struct {
	client    *http.Client
	baseURL   string // e.g. "https://api.razorpay.com"
	keyID     string
	keySecret string
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}

	return &RazorpayClient{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:   baseURL,
		keyID:     strings.TrimSpace(keyID),
		keySecret: strings.TrimSpace(keySecret),
	}
}

// PaymentStatus fetches the payment and maps its provider status onto the
// usecase enum. Anything unexpected (transport error, non-2xx, unknown
// status string) comes back as an error so the caller can refuse to move
// the order.
func (c *RazorpayClient) PaymentStatus(ctx context.Context, paymentID string) (usecase.PaymentState, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return "", fmt.Errorf("paymentID is empty")
	}
	if c.keyID == "" || c.keySecret == "" {
		return "", fmt.Errorf("razorpay credentials not configured")
	}

	endpoint := c.baseURL + "/v1/payments/" + url.PathEscape(paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[razorpay] http request FAILED paymentId=%s err=%v", paymentID, err)
		return "", fmt.Errorf("fetch payment: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[razorpay] fetch payment FAILED status=%d body=%s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("fetch payment failed: status=%d", resp.StatusCode)
	}

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", fmt.Errorf("decode payment response: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(res.Status)) {
	case "created":
		return usecase.PaymentStateCreated, nil
	case "authorized":
		return usecase.PaymentStateAuthorized, nil
	case "captured":
		return usecase.PaymentStateCaptured, nil
	case "failed":
		return usecase.PaymentStateFailed, nil
	case "refunded":
		// a refunded payment was captured first; the order stays completed
		return usecase.PaymentStateCaptured, nil
	}
	return "", fmt.Errorf("unknown payment status %q", res.Status)
}

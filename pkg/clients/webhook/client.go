package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mfbarbosa/padaria/internal/config"
	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// Client posts billing events to the collaborator endpoint that handles
// message composition and delivery. The payloads here are raw facts; what the
// client-facing message looks like is not this service's concern.
type Client interface {
	PaymentRegistered(ctx context.Context, payment models.Payment) error
	BalanceDigest(ctx context.Context, entries []DigestEntry) error
}

// DigestEntry is one client's line in the nightly balance digest.
type DigestEntry struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
	Balance    string `json:"balance"`
	DaysCount  int    `json:"daysCount"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client from the provided configuration values.
func NewClient(cfg config.WebhookConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &APIClient{httpClient: restyClient}
}

// PaymentRegistered notifies the collaborator of a reconciled payment.
func (c *APIClient) PaymentRegistered(ctx context.Context, payment models.Payment) error {
	payload := map[string]any{
		"event":    "payment_registered",
		"clientId": payment.ClientID,
		"amount":   payment.Amount.String(),
		"method":   string(payment.Method),
		"date":     string(payment.Date),
	}
	return c.post(ctx, payload)
}

// BalanceDigest ships the nightly recompute summary.
func (c *APIClient) BalanceDigest(ctx context.Context, entries []DigestEntry) error {
	payload := map[string]any{
		"event":   "balance_digest",
		"entries": entries,
	}
	return c.post(ctx, payload)
}

func (c *APIClient) post(ctx context.Context, payload map[string]any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post("")
	if err != nil {
		return fmt.Errorf("post webhook event: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode())
	}

	return nil
}

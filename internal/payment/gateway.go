// Package payment adapts the external payment processor: it creates payment
// intents for hosted checkout and verifies the processor's signed callback.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/entities"

	"github.com/google/uuid"
)

type Gateway struct {
	baseURL    *url.URL
	keyID      string
	keySecret  string
	currency   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGateway(cfg config.Payment, logger *slog.Logger) (*Gateway, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment url must be absolute")
	}
	return &Gateway{
		baseURL:   parsed,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
		logger:    logger.With(slog.String("adapter", "payment")),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

type createRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createResponse struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// CreateIntent registers a payment with the processor for the given amount in
// whole currency units. The processor works in minor units, so the amount is
// scaled by 100 on the wire and back on the way out.
func (g *Gateway) CreateIntent(ctx context.Context, amount int) (entities.PaymentIntent, error) {
	endpoint := *g.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/orders")

	body, err := json.Marshal(createRequest{
		Amount:   amount * 100,
		Currency: g.currency,
		Receipt:  "rcpt_" + uuid.NewString(),
	})
	if err != nil {
		return entities.PaymentIntent{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return entities.PaymentIntent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		g.logger.Error("intent creation failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return entities.PaymentIntent{}, fmt.Errorf("payment processor error: %s", resp.Status)
	}

	var data createResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return entities.PaymentIntent{}, err
	}

	return entities.PaymentIntent{
		ID:       data.ID,
		Amount:   data.Amount / 100,
		Currency: data.Currency,
	}, nil
}

// VerifyCallback checks the processor's signature over "intentID|externalID"
// with the shared secret. It reports false on any mismatch and never errors;
// the order service decides what a failed verification means. The comparison
// is constant-time.
func (g *Gateway) VerifyCallback(proof entities.PaymentProof) bool {
	if proof.IntentID == "" || proof.ExternalID == "" || proof.Signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(proof.IntentID + "|" + proof.ExternalID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(proof.Signature))
}

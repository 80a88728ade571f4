package market

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"financeos/internal/config"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

// PlaidClient proxies requests to the Plaid API, injecting the stored client
// credentials into each request body. Responses are passed through verbatim.
type PlaidClient struct {
	baseURL  string
	clientID string
	secret   string
	http     *http.Client
	metrics  *monitoring.Collector
	logger   *zap.Logger
}

// NewPlaidClient creates a Plaid proxy client for the given environment base URL
func NewPlaidClient(baseURL string, cfg config.PlaidConfig, metrics *monitoring.Collector, logger *zap.Logger) *PlaidClient {
	return &PlaidClient{
		baseURL:  baseURL,
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		http:     &http.Client{Timeout: cfg.Timeout},
		metrics:  metrics,
		logger:   logger,
	}
}

// Endpoints returns the supported Plaid endpoint names
func (c *PlaidClient) Endpoints() []string {
	return []string{
		"link/token/create",
		"item/public_token/exchange",
		"accounts/get",
		"transactions/get",
		"investments/holdings/get",
	}
}

// Call forwards one request to Plaid. On a non-2xx upstream response the raw
// upstream body and status are returned alongside an upstream error so the
// handler can pass them through.
func (c *PlaidClient) Call(ctx context.Context, endpoint string, data map[string]interface{}) (json.RawMessage, int, error) {
	body := map[string]interface{}{
		"client_id": c.clientID,
		"secret":    c.secret,
	}
	for k, v := range data {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, apperrors.NewInternalErrorWithCause("failed to encode plaid request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, apperrors.NewInternalErrorWithCause("failed to build plaid request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure("plaid")
		c.logger.Error("plaid request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, 0, apperrors.NewInternalErrorWithCause("plaid request failed", err)
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordUpstreamFailure("plaid")
		return nil, 0, apperrors.NewInternalErrorWithCause("failed to read plaid response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordUpstreamFailure("plaid")
		return result, resp.StatusCode, apperrors.NewUpstreamError("plaid request rejected", resp.StatusCode)
	}
	return result, resp.StatusCode, nil
}

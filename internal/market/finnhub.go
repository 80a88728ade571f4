package market

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"financeos/internal/config"
	"financeos/internal/models"
	"financeos/internal/monitoring"
	apperrors "financeos/pkg/errors"
)

// FinnhubClient proxies market data lookups to the Finnhub API.
type FinnhubClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	metrics *monitoring.Collector
	logger  *zap.Logger
}

// NewFinnhubClient creates a Finnhub proxy client
func NewFinnhubClient(cfg config.FinnhubConfig, metrics *monitoring.Collector, logger *zap.Logger) *FinnhubClient {
	return &FinnhubClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup forwards one symbol lookup. On a non-2xx upstream response the raw
// upstream body and status are returned alongside an upstream error.
func (c *FinnhubClient) Lookup(ctx context.Context, endpoint, symbol string) (json.RawMessage, int, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, apperrors.NewInternalErrorWithCause("failed to build finnhub request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamFailure("finnhub")
		c.logger.Error("finnhub request failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, 0, apperrors.NewInternalErrorWithCause("finnhub request failed", err)
	}
	defer resp.Body.Close()

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordUpstreamFailure("finnhub")
		return nil, 0, apperrors.NewInternalErrorWithCause("failed to read finnhub response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordUpstreamFailure("finnhub")
		return result, resp.StatusCode, apperrors.NewUpstreamError("finnhub request rejected", resp.StatusCode)
	}
	return result, resp.StatusCode, nil
}

// Quotes fans out one quote lookup per symbol and aggregates the results,
// each tagged with its symbol.
func (c *FinnhubClient) Quotes(ctx context.Context, symbols []string) ([]models.JSON, error) {
	quotes := make([]models.JSON, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			body, _, err := c.Lookup(ctx, "quote", symbol)
			if err != nil {
				errs[i] = err
				return
			}

			quote := models.JSON{}
			if err := json.Unmarshal(body, &quote); err != nil {
				errs[i] = apperrors.NewInternalErrorWithCause("failed to decode quote", err)
				return
			}
			quote["symbol"] = symbol
			quotes[i] = quote
		}(i, symbol)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return quotes, nil
}

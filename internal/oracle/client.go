package oracle

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"novatrade/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Quote is one best-effort external price. A symbol absent from a response
// means "no update this round", never an error.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// Source is provenance metadata for a batch of quotes.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is the merged outcome of one FetchPrices call, possibly partial.
type Result struct {
	Quotes  []Quote
	Sources []Source
}

// PriceSource is the narrow collaborator interface the engine depends on, so
// the deterministic simulation core can be tested without network access.
type PriceSource interface {
	FetchPrices(ctx context.Context, symbols []string) (*Result, error)
}

// Client fetches external reference prices over HTTP. Requests are chunked
// into bounded batches and rate-limited; a failed batch degrades to a no-op
// for those symbols while earlier batches' results are kept.
type Client struct {
	client    *resty.Client
	logger    *zap.Logger
	limiter   *rate.Limiter
	chunkSize int
}

// ensure Client implements the interface
var _ PriceSource = (*Client)(nil)

type pricesResponse struct {
	Quotes  []Quote  `json:"prices"`
	Sources []Source `json:"sources"`
}

// NewClient creates a price-oracle client from configuration.
func NewClient(cfg config.Oracle, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second)

	return &Client{
		client:    client,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		chunkSize: cfg.ChunkSize,
	}
}

// FetchPrices retrieves quotes for the given symbols in chunks. Partial
// failures never discard successfully retrieved batches; the error is
// non-nil only when every batch failed.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (*Result, error) {
	result := &Result{}
	var failed int
	batches := 0

	for i := 0; i < len(symbols); i += c.chunkSize {
		end := i + c.chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batches++

		resp, err := c.fetchBatch(ctx, symbols[i:end])
		if err != nil {
			failed++
			c.logger.Warn("Oracle batch failed, continuing with remaining batches",
				zap.Strings("symbols", symbols[i:end]),
				zap.Error(err))
			continue
		}

		result.Quotes = append(result.Quotes, resp.Quotes...)
		result.Sources = append(result.Sources, resp.Sources...)
	}

	if batches > 0 && failed == batches {
		return result, fmt.Errorf("all %d oracle batches failed", batches)
	}
	return result, nil
}

// fetchBatch performs one rate-limited request for a bounded symbol set.
func (c *Client) fetchBatch(ctx context.Context, symbols []string) (*pricesResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var out pricesResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", strings.Join(symbols, ",")).
		SetResult(&out).
		SetHeader("Content-Type", "application/json").
		Get("/prices")
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, fmt.Errorf("oracle rate limited: %s", resp.Status())
		}
		return nil, fmt.Errorf("oracle request failed with status %s", resp.Status())
	}

	return &out, nil
}

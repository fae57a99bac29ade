package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"novatrade/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestClient creates a test server and a Client pointed at it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.Oracle{
		BaseURL:        server.URL,
		ChunkSize:      15,
		RateLimit:      1000, // effectively unlimited in tests
		RateLimitBurst: 100,
	}, zap.NewNop())

	return client, server
}

func symbolsParam(r *http.Request) []string {
	return strings.Split(r.URL.Query().Get("symbols"), ",")
}

func writeQuotes(w http.ResponseWriter, symbols []string) {
	resp := struct {
		Quotes  []Quote  `json:"prices"`
		Sources []Source `json:"sources"`
	}{
		Sources: []Source{{Title: "NSE quotes", URI: "https://example.com/nse"}},
	}
	for i, s := range symbols {
		resp.Quotes = append(resp.Quotes, Quote{Symbol: s, Price: float64(100 + i)})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func manySymbols(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("SYM%02d", i)
	}
	return out
}

func TestFetchPricesChunksRequests(t *testing.T) {
	var batches [][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices", r.URL.Path)
		syms := symbolsParam(r)
		batches = append(batches, syms)
		writeQuotes(w, syms)
	})

	client, _ := setupTestClient(t, handler)

	res, err := client.FetchPrices(context.Background(), manySymbols(40))
	require.NoError(t, err)

	// 40 symbols at a chunk size of 15 makes 3 batches.
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 15)
	assert.Len(t, batches[1], 15)
	assert.Len(t, batches[2], 10)

	assert.Len(t, res.Quotes, 40)
	assert.Len(t, res.Sources, 3)
}

func TestFetchPricesKeepsPartialResults(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		writeQuotes(w, symbolsParam(r))
	})

	client, _ := setupTestClient(t, handler)

	res, err := client.FetchPrices(context.Background(), manySymbols(40))
	// One failed batch out of three is a partial success, not an error.
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, res.Quotes, 25)
}

func TestFetchPricesAllBatchesFailed(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})

	client, _ := setupTestClient(t, handler)

	res, err := client.FetchPrices(context.Background(), manySymbols(20))
	assert.Error(t, err)
	assert.Empty(t, res.Quotes)
}

func TestFetchPricesEmptySymbolList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty symbol list")
	})

	client, _ := setupTestClient(t, handler)

	res, err := client.FetchPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Quotes)
}

func TestFetchPricesHonoursContextCancellation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeQuotes(w, symbolsParam(r))
	})

	client, _ := setupTestClient(t, handler)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchPrices(ctx, manySymbols(20))
	assert.Error(t, err)
}

func TestSymbolAbsentFromResponseIsNotAnError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the first requested symbol gets a quote this round.
		writeQuotes(w, symbolsParam(r)[:1])
	})

	client, _ := setupTestClient(t, handler)

	res, err := client.FetchPrices(context.Background(), []string{"TCS", "INFY", "WIPRO"})
	require.NoError(t, err)
	assert.Len(t, res.Quotes, 1)
	assert.Equal(t, "TCS", res.Quotes[0].Symbol)
}

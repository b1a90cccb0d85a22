package coinpaprikaquotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewidget/pkg/types/quotes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteFetcher_FetchQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickers/btc-bitcoin", r.URL.Path)
		assert.Equal(t, "GBP,USD", r.URL.Query().Get("quotes"))
		resp := map[string]any{
			"id": "btc-bitcoin",
			"quotes": map[string]any{
				"GBP": map[string]float64{"price": 68941.27},
				"USD": map[string]float64{"price": 87267.53},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	fetcher := NewQuoteFetcher()
	fetcher.BaseURL = server.URL

	q, err := fetcher.FetchQuote(context.Background(), "btc-bitcoin")
	require.NoError(t, err)

	assert.Equal(t, "btc-bitcoin", q.AssetID)
	assert.Equal(t, quotes.SourceCoinpaprika, q.Source)
	assert.Equal(t, "68941.27", q.Prices["GBP"].StringFixed(2))
	assert.Equal(t, "87267.53", q.Prices["USD"].StringFixed(2))
	assert.False(t, q.FetchedAt.IsZero())
}

func TestQuoteFetcher_FetchQuote_MissingCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id": "eth-ethereum",
			"quotes": map[string]any{
				"USD": map[string]float64{"price": 2933.91},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	fetcher := NewQuoteFetcher()
	fetcher.BaseURL = server.URL

	_, err := fetcher.FetchQuote(context.Background(), "eth-ethereum")
	require.Error(t, err)
	assert.ErrorIs(t, err, quotes.ErrFetchFailed)
	assert.Contains(t, err.Error(), "GBP")
}

func TestQuoteFetcher_FetchQuote_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := NewQuoteFetcher()
	fetcher.BaseURL = server.URL

	_, err := fetcher.FetchQuote(context.Background(), "btc-bitcoin")
	assert.ErrorIs(t, err, quotes.ErrFetchFailed)
	assert.Contains(t, err.Error(), "429")
}

func TestQuoteFetcher_FetchQuote_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	fetcher := NewQuoteFetcher()
	fetcher.BaseURL = server.URL

	_, err := fetcher.FetchQuote(context.Background(), "btc-bitcoin")
	assert.ErrorIs(t, err, quotes.ErrFetchFailed)
}

func TestQuoteFetcher_FetchQuote_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	fetcher := NewQuoteFetcher()
	fetcher.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.FetchQuote(ctx, "btc-bitcoin")
	assert.ErrorIs(t, err, quotes.ErrFetchFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuoteFetcher_FetchQuote_NullOrEmptyPrice(t *testing.T) {
	bodies := map[string]string{
		"empty entry": `{"id":"btc-bitcoin","quotes":{"GBP":{},"USD":{"price":87267.53}}}`,
		"null price":  `{"id":"btc-bitcoin","quotes":{"GBP":{"price":68941.27},"USD":{"price":null}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			fetcher := NewQuoteFetcher()
			fetcher.BaseURL = server.URL

			q, err := fetcher.FetchQuote(context.Background(), "btc-bitcoin")
			assert.Nil(t, q)
			assert.ErrorIs(t, err, quotes.ErrFetchFailed)
			assert.Contains(t, err.Error(), "missing")
		})
	}
}

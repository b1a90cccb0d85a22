package coingeckoquotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pricewidget/pkg/types/quotes"
)

var (
	_ quotes.QuoteFetcher = (*QuoteFetcher)(nil)
)

// CoinGecko keys coins by its own slugs, not by coinpaprika ids.
var defaultIDs = map[string]string{
	"btc-bitcoin":  "bitcoin",
	"eth-ethereum": "ethereum",
}

type QuoteFetcher struct {
	BaseURL    string
	APIKey     string
	Client     *http.Client
	Currencies []string
	IDs        map[string]string
}

func NewQuoteFetcher() *QuoteFetcher {
	return &QuoteFetcher{
		BaseURL:    "https://api.coingecko.com/api/v3",
		Client:     &http.Client{Timeout: 10 * time.Second},
		Currencies: quotes.DefaultCurrencies,
		IDs:        defaultIDs,
	}
}

func NewQuoteFetcherWithKey(apiKey string) *QuoteFetcher {
	f := NewQuoteFetcher()
	f.APIKey = strings.TrimSpace(apiKey)
	return f
}

func (c *QuoteFetcher) FetchQuote(ctx context.Context, assetID string) (*quotes.Quote, error) {
	coinID, ok := c.IDs[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: no coingecko id for %q", quotes.ErrFetchFailed, assetID)
	}

	vs := make([]string, len(c.Currencies))
	for i, cur := range c.Currencies {
		vs[i] = strings.ToLower(cur)
	}

	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", strings.Join(vs, ","))
	endpoint := fmt.Sprintf("%s/simple/price?%s", strings.TrimRight(c.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", quotes.ErrFetchFailed, err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch prices: %w", quotes.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", quotes.ErrFetchFailed, resp.StatusCode)
	}

	var result map[string]map[string]*float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", quotes.ErrFetchFailed, err)
	}

	coin, ok := result[coinID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q in response", quotes.ErrFetchFailed, coinID)
	}

	raw := make(map[string]*float64, len(coin))
	for cur, v := range coin {
		raw[strings.ToUpper(cur)] = v
	}

	return quotes.Build(assetID, quotes.SourceCoinGecko, raw, c.Currencies)
}

package cryptocomparequotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pricewidget/pkg/types/quotes"
)

var (
	_ quotes.QuoteFetcher = (*QuoteFetcher)(nil)
)

var defaultSymbols = map[string]string{
	"btc-bitcoin":  "BTC",
	"eth-ethereum": "ETH",
}

type QuoteFetcher struct {
	BaseURL    string
	Client     *http.Client
	APIKey     string
	Currencies []string
	Symbols    map[string]string
}

func NewQuoteFetcher() *QuoteFetcher {
	return &QuoteFetcher{
		BaseURL:    "https://min-api.cryptocompare.com/data",
		Client:     &http.Client{Timeout: 10 * time.Second},
		Currencies: quotes.DefaultCurrencies,
		Symbols:    defaultSymbols,
	}
}

func NewQuoteFetcherWithKey(apiKey string) *QuoteFetcher {
	f := NewQuoteFetcher()
	f.APIKey = apiKey
	return f
}

func (c *QuoteFetcher) addAuth(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("authorization", "Apikey "+c.APIKey)
	}
}

func (c *QuoteFetcher) FetchQuote(ctx context.Context, assetID string) (*quotes.Quote, error) {
	symbol, ok := c.Symbols[assetID]
	if !ok {
		return nil, fmt.Errorf("%w: no cryptocompare symbol for %q", quotes.ErrFetchFailed, assetID)
	}

	endpoint := fmt.Sprintf("%s/price?fsym=%s&tsyms=%s",
		strings.TrimRight(c.BaseURL, "/"), symbol, strings.Join(c.Currencies, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", quotes.ErrFetchFailed, err)
	}
	c.addAuth(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch price: %w", quotes.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", quotes.ErrFetchFailed, resp.StatusCode)
	}

	// errors come back as 200 with {"Response":"Error",...}, which fails to
	// decode into a float map
	var result map[string]*float64
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", quotes.ErrFetchFailed, err)
	}

	return quotes.Build(assetID, quotes.SourceCryptoCompare, result, c.Currencies)
}

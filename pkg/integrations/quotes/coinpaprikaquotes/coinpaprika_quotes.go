package coinpaprikaquotes

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

type QuoteFetcher struct {
	BaseURL    string
	Client     *http.Client
	Currencies []string
}

func NewQuoteFetcher() *QuoteFetcher {
	return &QuoteFetcher{
		BaseURL:    "https://api.coinpaprika.com/v1",
		Client:     &http.Client{Timeout: 10 * time.Second},
		Currencies: quotes.DefaultCurrencies,
	}
}

type tickerResponse struct {
	ID     string `json:"id"`
	Quotes map[string]struct {
		Price *float64 `json:"price"`
	} `json:"quotes"`
}

// FetchQuote asks the ticker endpoint for every configured currency in a
// single request, e.g. /tickers/btc-bitcoin?quotes=GBP,USD.
func (c *QuoteFetcher) FetchQuote(ctx context.Context, assetID string) (*quotes.Quote, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, fmt.Errorf("%w: empty asset id", quotes.ErrFetchFailed)
	}

	endpoint := fmt.Sprintf("%s/tickers/%s?quotes=%s",
		strings.TrimRight(c.BaseURL, "/"),
		url.PathEscape(assetID),
		strings.Join(c.Currencies, ","),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", quotes.ErrFetchFailed, err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch ticker: %w", quotes.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", quotes.ErrFetchFailed, resp.StatusCode)
	}

	var result tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", quotes.ErrFetchFailed, err)
	}

	raw := make(map[string]*float64, len(result.Quotes))
	for currency, q := range result.Quotes {
		raw[strings.ToUpper(currency)] = q.Price
	}

	return quotes.Build(assetID, quotes.SourceCoinpaprika, raw, c.Currencies)
}

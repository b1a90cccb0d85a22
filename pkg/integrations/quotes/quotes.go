package quotes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pricewidget/pkg/integrations/quotes/coingeckoquotes"
	"pricewidget/pkg/integrations/quotes/coinpaprikaquotes"
	"pricewidget/pkg/integrations/quotes/cryptocomparequotes"
	"pricewidget/pkg/types/quotes"
)

type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func AvailableProviders() []string {
	return []string{
		quotes.SourceCoinpaprika,
		quotes.SourceCoinGecko,
		quotes.SourceCryptoCompare,
	}
}

// NewFromConfig builds the quote source named by cfg.Provider. An empty
// provider selects coinpaprika.
func NewFromConfig(cfg Config) (quotes.QuoteFetcher, error) {
	var client *http.Client
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", quotes.SourceCoinpaprika:
		f := coinpaprikaquotes.NewQuoteFetcher()
		if cfg.BaseURL != "" {
			f.BaseURL = cfg.BaseURL
		}
		if client != nil {
			f.Client = client
		}
		return f, nil
	case quotes.SourceCoinGecko:
		f := coingeckoquotes.NewQuoteFetcherWithKey(cfg.APIKey)
		if cfg.BaseURL != "" {
			f.BaseURL = cfg.BaseURL
		}
		if client != nil {
			f.Client = client
		}
		return f, nil
	case quotes.SourceCryptoCompare:
		f := cryptocomparequotes.NewQuoteFetcherWithKey(cfg.APIKey)
		if cfg.BaseURL != "" {
			f.BaseURL = cfg.BaseURL
		}
		if client != nil {
			f.Client = client
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown quote provider: %s", cfg.Provider)
	}
}

package quotes

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	SourceCoinpaprika   = "coinpaprika"
	SourceCoinGecko     = "coingecko"
	SourceCryptoCompare = "cryptocompare"
)

const (
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
)

// ErrFetchFailed is the single error kind every QuoteFetcher reports.
// Adapters join it with the underlying cause.
var ErrFetchFailed = errors.New("quote fetch failed")

// Quote carries the prices of one asset in every requested currency,
// keyed by upper-case currency code.
type Quote struct {
	AssetID   string
	Prices    map[string]decimal.Decimal
	Source    string
	FetchedAt time.Time
}

func (q *Quote) Price(currency string) (decimal.Decimal, bool) {
	if q == nil {
		return decimal.Zero, false
	}
	p, ok := q.Prices[currency]
	return p, ok
}

type QuoteFetcher interface {
	FetchQuote(ctx context.Context, assetID string) (*Quote, error)
}

// DefaultCurrencies is the currency set requested when an adapter is not
// configured otherwise.
var DefaultCurrencies = []string{CurrencyGBP, CurrencyUSD}

// Build normalizes raw provider prices into a Quote. Every currency must be
// present, non-null and non-negative, otherwise the response is treated as
// malformed. A nil entry is how a missing or null JSON price decodes.
func Build(assetID, source string, raw map[string]*float64, currencies []string) (*Quote, error) {
	prices := make(map[string]decimal.Decimal, len(currencies))
	for _, c := range currencies {
		v, ok := raw[c]
		if !ok || v == nil {
			return nil, errors.Wrapf(ErrFetchFailed, "%s: missing %s price for %s", source, c, assetID)
		}
		if *v < 0 {
			return nil, errors.Wrapf(ErrFetchFailed, "%s: negative %s price for %s", source, c, assetID)
		}
		prices[c] = decimal.NewFromFloat(*v)
	}
	return &Quote{
		AssetID:   assetID,
		Prices:    prices,
		Source:    source,
		FetchedAt: time.Now(),
	}, nil
}

package models

import (
	"strings"
	"time"

	"pricewidget/pkg/types/quotes"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAsset    = errors.New("invalid asset")
	ErrInvalidCurrency = errors.New("invalid currency")
)

type Asset string

const (
	AssetEthereum Asset = "ETHEREUM"
	AssetBitcoin  Asset = "BITCOIN"
)

type AssetInfo struct {
	Asset  Asset  `json:"asset"`
	ID     string `json:"id"`
	Label  string `json:"label"`
	Ticker string `json:"ticker"`
}

// assetTable is the closed set of supported assets. Lookups never fall back
// to fuzzy matching.
var assetTable = []AssetInfo{
	{Asset: AssetEthereum, ID: "eth-ethereum", Label: "ETHEREUM - ETH", Ticker: "ETH"},
	{Asset: AssetBitcoin, ID: "btc-bitcoin", Label: "BITCOIN - BTC", Ticker: "BTC"},
}

func Assets() []AssetInfo {
	out := make([]AssetInfo, len(assetTable))
	copy(out, assetTable)
	return out
}

// ParseAsset accepts either the enum name ("BITCOIN") or the display label
// ("BITCOIN - BTC").
func ParseAsset(s string) (Asset, error) {
	for _, info := range assetTable {
		if s == string(info.Asset) || s == info.Label {
			return info.Asset, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidAsset, "%q", s)
}

func (a Asset) Info() (AssetInfo, bool) {
	for _, info := range assetTable {
		if info.Asset == a {
			return info, true
		}
	}
	return AssetInfo{}, false
}

func (a Asset) Valid() bool {
	_, ok := a.Info()
	return ok
}

func (a Asset) ID() string {
	info, _ := a.Info()
	return info.ID
}

func (a Asset) Label() string {
	info, _ := a.Info()
	return info.Label
}

type Currency string

const (
	CurrencyGBP Currency = quotes.CurrencyGBP
	CurrencyUSD Currency = quotes.CurrencyUSD
)

type CurrencyInfo struct {
	Currency Currency `json:"currency"`
	Code     string   `json:"code"`
	Symbol   string   `json:"symbol"`
}

var currencyTable = []CurrencyInfo{
	{Currency: CurrencyGBP, Code: "gbp", Symbol: "£"},
	{Currency: CurrencyUSD, Code: "usd", Symbol: "$"},
}

func Currencies() []CurrencyInfo {
	out := make([]CurrencyInfo, len(currencyTable))
	copy(out, currencyTable)
	return out
}

// ParseCurrency is case-insensitive on the ISO code, so both the persisted
// "usd" and "USD" resolve.
func ParseCurrency(s string) (Currency, error) {
	for _, info := range currencyTable {
		if strings.EqualFold(strings.TrimSpace(s), info.Code) {
			return info.Currency, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidCurrency, "%q", s)
}

func (c Currency) Info() (CurrencyInfo, bool) {
	for _, info := range currencyTable {
		if info.Currency == c {
			return info, true
		}
	}
	return CurrencyInfo{}, false
}

func (c Currency) Valid() bool {
	_, ok := c.Info()
	return ok
}

func (c Currency) Symbol() string {
	info, _ := c.Info()
	return info.Symbol
}

func (c Currency) Code() string {
	info, _ := c.Info()
	return info.Code
}

type Selection struct {
	Asset    Asset    `json:"asset"`
	Currency Currency `json:"currency"`
}

func DefaultSelection() Selection {
	return Selection{Asset: AssetEthereum, Currency: CurrencyGBP}
}

func (s Selection) Valid() bool {
	return s.Asset.Valid() && s.Currency.Valid()
}

type Quote struct {
	Asset     Asset                        `json:"asset"`
	Prices    map[Currency]decimal.Decimal `json:"prices"`
	Source    string                       `json:"source"`
	FetchedAt time.Time                    `json:"fetched_at"`
}

// QuoteFromFetch maps a wire quote onto the supported currencies.
func QuoteFromFetch(asset Asset, q *quotes.Quote) Quote {
	prices := make(map[Currency]decimal.Decimal, len(currencyTable))
	for _, info := range currencyTable {
		if p, ok := q.Price(string(info.Currency)); ok {
			prices[info.Currency] = p
		}
	}
	return Quote{
		Asset:     asset,
		Prices:    prices,
		Source:    q.Source,
		FetchedAt: q.FetchedAt,
	}
}

// Display renders the price for c with its symbol and two decimals, or ""
// when the quote has no value for c.
func (q Quote) Display(c Currency) string {
	p, ok := q.Prices[c]
	if !ok {
		return ""
	}
	return c.Symbol() + p.StringFixed(2)
}

type Setting struct {
	ID        int64     `json:"id"         gorm:"primaryKey"`
	Key       string    `json:"key"        gorm:"uniqueIndex"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

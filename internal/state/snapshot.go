package state

import (
	"maps"

	"pricewidget/internal/models"
)

type FetchStatus string

const (
	FetchIdle     FetchStatus = "idle"
	FetchFetching FetchStatus = "fetching"
	FetchReady    FetchStatus = "ready"
	FetchFailed   FetchStatus = "failed"
)

// Snapshot is the read-only view handed to presentation. Every field is
// derived from the PriceState at the instant it was taken.
type Snapshot struct {
	Version      uint64                     `json:"version"`
	Selection    models.Selection           `json:"selection"`
	Label        string                     `json:"label"`
	Symbol       string                     `json:"symbol"`
	MenuOpen     bool                       `json:"menu_open"`
	Quote        *models.Quote              `json:"quote,omitempty"`
	DisplayPrice string                     `json:"display_price"`
	Prices       map[models.Currency]string `json:"prices,omitempty"`
	Status       FetchStatus                `json:"status"`
	FetchError   string                     `json:"fetch_error,omitempty"`
	PersistError string                     `json:"persist_error,omitempty"`
}

func (s *PriceState) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:   s.version,
		Selection: s.selection,
		Label:     s.selection.Asset.Label(),
		Symbol:    s.selection.Currency.Symbol(),
		MenuOpen:  s.menuOpen,
		Status:    s.status,
	}

	if s.quote != nil {
		q := *s.quote
		q.Prices = maps.Clone(s.quote.Prices)
		snap.Quote = &q
		snap.DisplayPrice = q.Display(s.selection.Currency)
		snap.Prices = make(map[models.Currency]string, len(q.Prices))
		for c := range q.Prices {
			snap.Prices[c] = q.Display(c)
		}
	}
	if s.fetchErr != nil {
		snap.FetchError = s.fetchErr.Error()
	}
	if s.persistErr != nil {
		snap.PersistError = s.persistErr.Error()
	}
	return snap
}

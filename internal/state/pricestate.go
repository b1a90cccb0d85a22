package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"pricewidget/internal/metrics"
	"pricewidget/internal/models"
	"pricewidget/pkg/types/pubsub"
	"pricewidget/pkg/types/quotes"

	"github.com/pkg/errors"
)

type SelectionStore interface {
	LoadSelection() (models.Selection, bool, error)
	SaveSelection(models.Selection) error
}

// PriceState is the single source of truth for what the widget shows. All
// mutation happens under mu; quote fetches run outside it so currency and
// menu changes stay responsive while a fetch is outstanding.
type PriceState struct {
	logger    *slog.Logger
	fetcher   quotes.QuoteFetcher
	store     SelectionStore
	publisher pubsub.Publisher
	metrics   *metrics.Metrics

	mu          sync.Mutex
	initialized bool
	selection   models.Selection
	quote       *models.Quote
	menuOpen    bool
	status      FetchStatus
	fetchErr    error
	persistErr  error
	// generation identifies the most recently started fetch; only its
	// result may be applied.
	generation uint64
	version    uint64

	pubMu         sync.Mutex
	lastPublished uint64

	writer *persister
}

type Option func(*PriceState)

func WithLogger(l *slog.Logger) Option {
	return func(s *PriceState) {
		s.logger = l
	}
}

func WithQuoteFetcher(f quotes.QuoteFetcher) Option {
	return func(s *PriceState) {
		s.fetcher = f
	}
}

func WithSelectionStore(st SelectionStore) Option {
	return func(s *PriceState) {
		s.store = st
	}
}

// WithPublisher receives a JSON encoded Snapshot after every change.
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *PriceState) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *PriceState) {
		s.metrics = m
	}
}

func (s *PriceState) IsValid() error {
	switch {
	case s.logger == nil:
		return errors.Wrap(ErrInvalidPriceStateConfig, "logger cannot be nil")
	case s.fetcher == nil:
		return errors.Wrap(ErrInvalidPriceStateConfig, "quote fetcher cannot be nil")
	case s.store == nil:
		return errors.Wrap(ErrInvalidPriceStateConfig, "selection store cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*PriceState, error) {
	s := &PriceState{
		selection: models.DefaultSelection(),
		status:    FetchIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	s.writer = newPersister(s.store.SaveSelection, s.persisted)
	return s, nil
}

// Initialize seeds the selection from the store and performs the first
// refresh. It may run once per PriceState.
func (s *PriceState) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.initialized = true
	s.mu.Unlock()

	sel, found, loadErr := s.store.LoadSelection()
	if loadErr != nil {
		s.logger.Warn("failed to load selection, using defaults", "error", loadErr)
	}
	if !found || !sel.Valid() {
		sel = models.DefaultSelection()
	}

	s.mu.Lock()
	s.selection = sel
	s.menuOpen = false
	s.quote = nil
	s.fetchErr = nil
	s.persistErr = nil
	if loadErr != nil {
		s.persistErr = fmt.Errorf("%w: %w", ErrPersistFailed, loadErr)
	}
	gen, asset := s.beginFetchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("price state initialized",
		"asset", sel.Asset, "currency", sel.Currency, "persisted", found)
	s.publish(snap)

	return s.fetch(ctx, gen, asset)
}

// SelectAsset switches to asset, closes the menu, persists the selection and
// fetches a quote for the new asset. The previous quote is cleared at once so
// a price for another asset is never shown.
func (s *PriceState) SelectAsset(ctx context.Context, asset models.Asset) error {
	if !asset.Valid() {
		err := errors.Wrapf(ErrInvalidAsset, "%q", asset)
		s.metrics.Intent("select_asset", err)
		return err
	}
	s.metrics.Intent("select_asset", nil)

	s.mu.Lock()
	s.selection.Asset = asset
	s.menuOpen = false
	s.quote = nil
	s.fetchErr = nil
	gen, fetchAsset := s.beginFetchLocked()
	sel := s.selection
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("asset selected", "asset", asset)
	s.writer.Save(sel)
	s.publish(snap)

	return s.fetch(ctx, gen, fetchAsset)
}

// SwitchCurrency changes the display currency. It never touches the network:
// the held quote already carries every supported currency.
func (s *PriceState) SwitchCurrency(currency models.Currency) error {
	if !currency.Valid() {
		err := errors.Wrapf(ErrInvalidCurrency, "%q", currency)
		s.metrics.Intent("switch_currency", err)
		return err
	}
	s.metrics.Intent("switch_currency", nil)

	s.mu.Lock()
	s.selection.Currency = currency
	s.version++
	sel := s.selection
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("currency switched", "currency", currency)
	s.writer.Save(sel)
	s.publish(snap)
	return nil
}

// Refresh re-fetches the quote for the current asset. A failure keeps the
// previous quote and is recorded on the snapshot.
func (s *PriceState) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen, asset := s.beginFetchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	err := s.fetch(ctx, gen, asset)
	s.metrics.Intent("refresh", err)
	return err
}

func (s *PriceState) SetMenuOpen(open bool) {
	s.metrics.Intent("set_menu", nil)

	s.mu.Lock()
	if s.menuOpen == open {
		s.mu.Unlock()
		return
	}
	s.menuOpen = open
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// ToggleMenu handles an open request: it opens a closed menu and closes an
// open one.
func (s *PriceState) ToggleMenu() {
	s.metrics.Intent("toggle_menu", nil)

	s.mu.Lock()
	s.menuOpen = !s.menuOpen
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *PriceState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close flushes pending selection writes and stops the writer.
func (s *PriceState) Close() {
	s.writer.Close()
}

func (s *PriceState) beginFetchLocked() (uint64, models.Asset) {
	s.generation++
	s.status = FetchFetching
	s.version++
	return s.generation, s.selection.Asset
}

func (s *PriceState) fetch(ctx context.Context, gen uint64, asset models.Asset) error {
	wire, err := s.fetcher.FetchQuote(ctx, asset.ID())
	var quote models.Quote
	if err == nil {
		quote, err = toQuote(asset, wire)
	}
	if err != nil && !errors.Is(err, ErrFetchFailed) {
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	s.metrics.QuoteFetched(string(asset), err)

	s.mu.Lock()
	if gen != s.generation || asset != s.selection.Asset {
		s.mu.Unlock()
		s.metrics.StaleDiscarded()
		s.logger.Debug("discarding superseded quote", "asset", asset, "generation", gen)
		return nil
	}

	if err != nil {
		s.status = FetchFailed
		s.fetchErr = err
	} else {
		s.status = FetchReady
		s.fetchErr = nil
		s.quote = &quote
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("quote fetch failed", "asset", asset, "error", err)
	} else {
		s.logger.Debug("quote updated", "asset", asset, "price", snap.DisplayPrice)
	}
	s.publish(snap)
	return err
}

func toQuote(asset models.Asset, wire *quotes.Quote) (models.Quote, error) {
	if wire == nil {
		return models.Quote{}, errors.Wrap(ErrFetchFailed, "empty quote")
	}
	if wire.AssetID != asset.ID() {
		return models.Quote{}, errors.Wrapf(ErrFetchFailed, "quote for %q, want %q", wire.AssetID, asset.ID())
	}
	q := models.QuoteFromFetch(asset, wire)
	for _, c := range models.Currencies() {
		if _, ok := q.Prices[c.Currency]; !ok {
			return models.Quote{}, errors.Wrapf(ErrFetchFailed, "quote missing %s", c.Currency)
		}
	}
	return q, nil
}

func (s *PriceState) persisted(sel models.Selection, err error) {
	s.metrics.SelectionWritten(err)
	if err != nil {
		s.logger.Error("failed to persist selection",
			"asset", sel.Asset, "currency", sel.Currency, "error", err)
	}

	s.mu.Lock()
	if err == nil && s.persistErr == nil {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.persistErr = fmt.Errorf("%w: %w", ErrPersistFailed, err)
	} else {
		s.persistErr = nil
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

func (s *PriceState) publish(snap Snapshot) {
	if s.publisher == nil {
		return
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if snap.Version <= s.lastPublished {
		return
	}
	s.lastPublished = snap.Version

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("failed to marshal snapshot", "error", err)
		return
	}
	if err := s.publisher.Publish(data); err != nil {
		s.logger.Warn("failed to publish snapshot", "version", snap.Version, "error", err)
	}
}

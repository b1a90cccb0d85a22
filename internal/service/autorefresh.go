package service

import (
	"context"
	"log/slog"
	"time"

	tickerScheduler "pricewidget/pkg/integrations/scheduler"
	"pricewidget/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var ErrInvalidAutoRefreshConfig = errors.New("invalid auto refresh service config")

type Refresher interface {
	Refresh(ctx context.Context) error
}

// AutoRefreshService periodically refreshes the displayed quote. The first
// quote comes from PriceState.Initialize, so Start does not tick immediately.
type AutoRefreshService struct {
	ctx       context.Context
	logger    *slog.Logger
	refresher Refresher
	interval  time.Duration
	timeout   time.Duration
	scheduler scheduler.Scheduler
}

type AutoRefreshOption func(*AutoRefreshService)

func WithAutoRefreshContext(ctx context.Context) AutoRefreshOption {
	return func(s *AutoRefreshService) {
		s.ctx = ctx
	}
}

func WithAutoRefreshLogger(l *slog.Logger) AutoRefreshOption {
	return func(s *AutoRefreshService) {
		s.logger = l
	}
}

func WithAutoRefreshRefresher(r Refresher) AutoRefreshOption {
	return func(s *AutoRefreshService) {
		s.refresher = r
	}
}

func WithAutoRefreshInterval(d time.Duration) AutoRefreshOption {
	return func(s *AutoRefreshService) {
		s.interval = d
	}
}

// WithAutoRefreshTimeout bounds each scheduled refresh.
func WithAutoRefreshTimeout(d time.Duration) AutoRefreshOption {
	return func(s *AutoRefreshService) {
		s.timeout = d
	}
}

func (s *AutoRefreshService) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "logger cannot be nil")
	case s.refresher == nil:
		return errors.Wrap(ErrInvalidAutoRefreshConfig, "refresher cannot be nil")
	case s.interval < scheduler.MinInterval:
		return errors.Wrapf(ErrInvalidAutoRefreshConfig, "interval must be at least %s", scheduler.MinInterval)
	default:
		return nil
	}
}

func NewAutoRefreshService(opts ...AutoRefreshOption) (*AutoRefreshService, error) {
	s := &AutoRefreshService{
		interval: scheduler.MinInterval,
		timeout:  10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}

	sched, err := tickerScheduler.New(
		tickerScheduler.WithContext(s.ctx),
		tickerScheduler.WithLogger(s.logger),
		tickerScheduler.WithInterval(s.interval),
		tickerScheduler.WithHandler(s.tick),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	return s, nil
}

func (s *AutoRefreshService) Start() error {
	s.logger.Info("auto refresh enabled", "interval", s.interval)
	return s.scheduler.Start()
}

func (s *AutoRefreshService) Stop() {
	s.scheduler.Stop()
}

func (s *AutoRefreshService) tick(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.refresher.Refresh(ctx); err != nil {
		return errors.Wrap(err, "scheduled refresh failed")
	}
	s.logger.Debug("scheduled refresh done")
	return nil
}

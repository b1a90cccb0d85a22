package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pricewidget/pkg/types/scheduler"

	"github.com/pkg/errors"
)

var (
	_ scheduler.Scheduler = (*Scheduler)(nil)

	ErrInvalidSchedulerConfig = errors.New("invalid scheduler config")
	ErrAlreadyStarted         = errors.New("scheduler already started")
)

type Scheduler struct {
	interval time.Duration
	ctx      context.Context
	logger   *slog.Logger
	handler  func(context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

func WithContext(ctx context.Context) Option {
	return func(s *Scheduler) {
		s.ctx = ctx
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithHandler sets the function run on every tick. Its context is canceled
// when the scheduler stops.
func WithHandler(h func(context.Context) error) Option {
	return func(s *Scheduler) {
		s.handler = h
	}
}

func (s *Scheduler) IsValid() error {
	switch {
	case s.ctx == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "ctx cannot be nil")
	case s.logger == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "logger cannot be nil")
	case s.interval <= 0:
		return errors.Wrap(ErrInvalidSchedulerConfig, "interval must be positive")
	case s.handler == nil:
		return errors.Wrap(ErrInvalidSchedulerConfig, "handler cannot be nil")
	default:
		return nil
	}
}

func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{}

	for _, opt := range opts {
		opt(s)
	}

	return s, s.IsValid()
}

func (s *Scheduler) Start() error {
	if err := s.IsValid(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	ticker := time.NewTicker(s.interval)

	go func(done chan struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.handler(ctx); err != nil {
					s.logger.Error("scheduler handler error", "interval", s.interval, "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}(s.done)

	return nil
}

// Stop cancels the loop and waits for an in-flight handler to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

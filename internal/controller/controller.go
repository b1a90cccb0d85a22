package controller

import (
	"context"
	"io"
	"log/slog"

	"pricewidget/internal/models"
	"pricewidget/internal/state"

	"github.com/gorilla/websocket"
)

// Widget is the presentation-facing surface of state.PriceState.
type Widget interface {
	Snapshot() state.Snapshot
	SelectAsset(ctx context.Context, asset models.Asset) error
	SwitchCurrency(currency models.Currency) error
	Refresh(ctx context.Context) error
	SetMenuOpen(open bool)
	ToggleMenu()
}

type Controller struct {
	widget   Widget
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

type Option func(*Controller)

func WithWidget(w Widget) Option {
	return func(c *Controller) {
		c.widget = w
	}
}

// WithHub enables the SSE and WebSocket snapshot streams.
func WithHub(h *Hub) Option {
	return func(c *Controller) {
		c.hub = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.widget == nil {
		return nil, ErrNilWidget
	}
	if c.logger == nil {
		return nil, ErrNilLogger
	}
	return c, nil
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"pricewidget/internal/controller"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEngine = errors.New("engine is required")
	ErrNilWidget = errors.New("widget is required")
)

type Handler struct {
	engine  *gin.Engine
	widget  controller.Widget
	hub     *controller.Hub
	metrics http.Handler
	logger  *slog.Logger
}

func (h *Handler) IsValid() error {
	if h.engine == nil {
		return ErrNilEngine
	}
	if h.widget == nil {
		return ErrNilWidget
	}
	return nil
}

type Option func(*Handler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *Handler) {
		h.engine = engine
	}
}

func WithWidget(w controller.Widget) Option {
	return func(h *Handler) {
		h.widget = w
	}
}

func WithHub(hub *controller.Hub) Option {
	return func(h *Handler) {
		h.hub = hub
	}
}

// WithMetricsHandler mounts the given handler at /metrics.
func WithMetricsHandler(m http.Handler) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

func New(opts ...Option) (*Handler, error) {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.IsValid(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handler) Setup() error {
	ctrlOpts := []controller.Option{
		controller.WithWidget(h.widget),
		controller.WithHub(h.hub),
	}
	if h.logger != nil {
		ctrlOpts = append(ctrlOpts, controller.WithLogger(h.logger))
	}
	ctrl, err := controller.New(ctrlOpts...)
	if err != nil {
		return err
	}

	h.engine.GET("/health", controller.Health)
	if h.metrics != nil {
		h.engine.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := h.engine.Group("/api")
	api.GET("/assets", ctrl.ListAssets)
	api.GET("/currencies", ctrl.ListCurrencies)

	widget := api.Group("/widget")
	widget.GET("", ctrl.GetWidget)
	widget.POST("/asset", ctrl.SelectAsset)
	widget.POST("/currency", ctrl.SwitchCurrency)
	widget.POST("/refresh", ctrl.Refresh)
	widget.POST("/menu", ctrl.SetMenu)
	widget.POST("/menu/toggle", ctrl.ToggleMenu)
	if h.hub != nil {
		widget.GET("/stream", ctrl.StreamWidget)
		widget.GET("/ws", ctrl.WidgetSocket)
	}

	return nil
}

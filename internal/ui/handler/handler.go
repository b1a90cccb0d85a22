package handler

import (
	"errors"
	"io/fs"
	"time"

	"pricewidget/internal/controller"
	"pricewidget/internal/ui"

	"github.com/gin-gonic/gin"
)

var (
	ErrNilEngine = errors.New("engine is required")
	ErrNilWidget = errors.New("widget is required")
)

type WebHandler struct {
	engine    *gin.Engine
	widget    controller.Widget
	templates fs.FS
	poll      time.Duration
	renderer  *Renderer
}

type Option func(*WebHandler)

func WithEngine(engine *gin.Engine) Option {
	return func(h *WebHandler) {
		h.engine = engine
	}
}

func WithWidget(w controller.Widget) Option {
	return func(h *WebHandler) {
		h.widget = w
	}
}

// WithTemplates overrides the embedded templates, rooted at the directory
// holding layouts/, pages/ and partials/.
func WithTemplates(fsys fs.FS) Option {
	return func(h *WebHandler) {
		h.templates = fsys
	}
}

// WithPollInterval sets how often the page re-reads the widget partial.
func WithPollInterval(d time.Duration) Option {
	return func(h *WebHandler) {
		h.poll = d
	}
}

func New(opts ...Option) (*WebHandler, error) {
	h := &WebHandler{
		poll: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.engine == nil {
		return nil, ErrNilEngine
	}
	if h.widget == nil {
		return nil, ErrNilWidget
	}
	if h.templates == nil {
		sub, err := fs.Sub(ui.Templates, "templates")
		if err != nil {
			return nil, err
		}
		h.templates = sub
	}
	if h.poll < time.Second {
		h.poll = time.Second
	}
	h.renderer = NewRenderer(h.templates)
	return h, nil
}

func (h *WebHandler) Setup() error {
	widget := NewWidgetHandler(h.renderer, h.widget, h.poll)

	h.engine.GET("/", widget.Index)
	h.engine.GET("/partials/widget", widget.Card)
	h.engine.POST("/partials/widget/asset", widget.SelectAsset)
	h.engine.POST("/partials/widget/currency", widget.SwitchCurrency)
	h.engine.POST("/partials/widget/refresh", widget.Refresh)
	h.engine.POST("/partials/widget/menu/toggle", widget.ToggleMenu)

	return nil
}

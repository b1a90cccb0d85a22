package handler

import (
	"context"
	"net/http"
	"time"

	"pricewidget/internal/controller"
	"pricewidget/internal/models"
	"pricewidget/internal/state"

	"github.com/gin-gonic/gin"
)

type WidgetHandler struct {
	renderer *Renderer
	widget   controller.Widget
	poll     time.Duration
}

func NewWidgetHandler(renderer *Renderer, widget controller.Widget, poll time.Duration) *WidgetHandler {
	return &WidgetHandler{
		renderer: renderer,
		widget:   widget,
		poll:     poll,
	}
}

type WidgetView struct {
	Snapshot    state.Snapshot
	Assets      []models.AssetInfo
	Currencies  []models.CurrencyInfo
	PollSeconds int
	Error       string
}

type PageData struct {
	Title string
	View  WidgetView
}

func (h *WidgetHandler) view(errMsg string) WidgetView {
	return WidgetView{
		Snapshot:    h.widget.Snapshot(),
		Assets:      models.Assets(),
		Currencies:  models.Currencies(),
		PollSeconds: int(h.poll / time.Second),
		Error:       errMsg,
	}
}

func (h *WidgetHandler) Index(c *gin.Context) {
	view := h.view("")
	h.renderer.HTML(c, http.StatusOK, "widget", PageData{
		Title: view.Snapshot.Label,
		View:  view,
	})
}

func (h *WidgetHandler) Card(c *gin.Context) {
	h.renderer.Partial(c, http.StatusOK, "widget", h.view(""))
}

func (h *WidgetHandler) SelectAsset(c *gin.Context) {
	asset, err := models.ParseAsset(c.PostForm("asset"))
	if err != nil {
		h.renderer.Partial(c, http.StatusBadRequest, "widget", h.view("Unknown asset"))
		return
	}
	// fetch failures are shown by the card itself
	_ = h.widget.SelectAsset(context.WithoutCancel(c.Request.Context()), asset)
	h.Card(c)
}

func (h *WidgetHandler) SwitchCurrency(c *gin.Context) {
	currency, err := models.ParseCurrency(c.PostForm("currency"))
	if err == nil {
		err = h.widget.SwitchCurrency(currency)
	}
	if err != nil {
		h.renderer.Partial(c, http.StatusBadRequest, "widget", h.view("Unknown currency"))
		return
	}
	h.Card(c)
}

func (h *WidgetHandler) Refresh(c *gin.Context) {
	_ = h.widget.Refresh(context.WithoutCancel(c.Request.Context()))
	h.Card(c)
}

func (h *WidgetHandler) ToggleMenu(c *gin.Context) {
	h.widget.ToggleMenu()
	h.Card(c)
}

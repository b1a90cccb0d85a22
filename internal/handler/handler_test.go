package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewidget/internal/controller"
	"pricewidget/internal/metrics"
	"pricewidget/internal/models"
	"pricewidget/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWidget struct {
	snap state.Snapshot
}

func (w *stubWidget) Snapshot() state.Snapshot { return w.snap }

func (w *stubWidget) SelectAsset(_ context.Context, a models.Asset) error {
	w.snap.Selection.Asset = a
	return nil
}

func (w *stubWidget) SwitchCurrency(c models.Currency) error {
	w.snap.Selection.Currency = c
	return nil
}

func (w *stubWidget) Refresh(context.Context) error { return nil }
func (w *stubWidget) SetMenuOpen(open bool) { w.snap.MenuOpen = open }
func (w *stubWidget) ToggleMenu() { w.snap.MenuOpen = !w.snap.MenuOpen }

func TestNew_Validation(t *testing.T) {
	_, err := New(WithWidget(&stubWidget{}))
	assert.ErrorIs(t, err, ErrNilEngine)

	_, err = New(WithEngine(gin.New()))
	assert.ErrorIs(t, err, ErrNilWidget)
}

func TestSetup_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Intent("refresh", nil)

	engine := gin.New()
	h, err := New(
		WithEngine(engine),
		WithWidget(&stubWidget{snap: state.Snapshot{Selection: models.DefaultSelection()}}),
		WithHub(controller.NewHub(0)),
		WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	routes := map[string]bool{}
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /api/assets",
		"GET /api/currencies",
		"GET /api/widget",
		"POST /api/widget/asset",
		"POST /api/widget/currency",
		"POST /api/widget/refresh",
		"POST /api/widget/menu",
		"POST /api/widget/menu/toggle",
		"GET /api/widget/stream",
		"GET /api/widget/ws",
	} {
		assert.True(t, routes[want], want)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pricewidget_intents_total")
}

func TestSetup_WithoutHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h, err := New(WithEngine(engine), WithWidget(&stubWidget{}))
	require.NoError(t, err)
	require.NoError(t, h.Setup())

	for _, r := range engine.Routes() {
		assert.NotEqual(t, "/api/widget/stream", r.Path)
		assert.NotEqual(t, "/api/widget/ws", r.Path)
	}
}

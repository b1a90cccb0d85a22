package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"pricewidget/internal/models"
	"pricewidget/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var displayPrices = map[models.Selection]string{
	{Asset: models.AssetEthereum, Currency: models.CurrencyGBP}: "£2318.40",
	{Asset: models.AssetEthereum, Currency: models.CurrencyUSD}: "$2933.91",
	{Asset: models.AssetBitcoin, Currency: models.CurrencyGBP}:  "£68941.28",
	{Asset: models.AssetBitcoin, Currency: models.CurrencyUSD}:  "$87267.50",
}

type stubWidget struct {
	sel      models.Selection
	menuOpen bool
	refresh  int
	fetchErr string
}

func (w *stubWidget) Snapshot() state.Snapshot {
	return state.Snapshot{
		Selection:    w.sel,
		Label:        w.sel.Asset.Label(),
		Symbol:       w.sel.Currency.Symbol(),
		MenuOpen:     w.menuOpen,
		DisplayPrice: displayPrices[w.sel],
		FetchError:   w.fetchErr,
	}
}

func (w *stubWidget) SelectAsset(_ context.Context, a models.Asset) error {
	w.sel.Asset = a
	w.menuOpen = false
	return nil
}

func (w *stubWidget) SwitchCurrency(c models.Currency) error {
	w.sel.Currency = c
	return nil
}

func (w *stubWidget) Refresh(context.Context) error {
	w.refresh++
	return nil
}

func (w *stubWidget) SetMenuOpen(open bool) { w.menuOpen = open }
func (w *stubWidget) ToggleMenu() { w.menuOpen = !w.menuOpen }

func setupRouter(t *testing.T, w *stubWidget, opts ...Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	h, err := New(append([]Option{WithEngine(engine), WithWidget(w)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, h.Setup())
	return engine
}

func serve(engine *gin.Engine, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestNew_Validation(t *testing.T) {
	_, err := New(WithWidget(&stubWidget{}))
	assert.ErrorIs(t, err, ErrNilEngine)

	_, err = New(WithEngine(gin.New()))
	assert.ErrorIs(t, err, ErrNilWidget)
}

func TestIndex(t *testing.T) {
	engine := setupRouter(t, &stubWidget{sel: models.DefaultSelection()})

	rec := serve(engine, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<title>ETHEREUM - ETH</title>")
	assert.Contains(t, body, "£2318.40")
	assert.Contains(t, body, "every 30s")
	assert.NotContains(t, body, "widget-menu")
}

func TestCard_EmptyPrice(t *testing.T) {
	w := &stubWidget{sel: models.Selection{Asset: models.AssetEthereum, Currency: "EUR"}, fetchErr: "down"}
	engine := setupRouter(t, w)

	rec := serve(engine, http.MethodGet, "/partials/widget", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Price update failed")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestToggleMenuListsAssets(t *testing.T) {
	w := &stubWidget{sel: models.DefaultSelection()}
	engine := setupRouter(t, w)

	rec := serve(engine, http.MethodPost, "/partials/widget/menu/toggle", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, w.menuOpen)
	assert.Contains(t, rec.Body.String(), "BITCOIN - BTC")
	assert.Contains(t, rec.Body.String(), "widget-menu")
}

func TestSelectAsset(t *testing.T) {
	w := &stubWidget{sel: models.DefaultSelection(), menuOpen: true}
	engine := setupRouter(t, w)

	rec := serve(engine, http.MethodPost, "/partials/widget/asset", url.Values{"asset": {"BITCOIN"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AssetBitcoin, w.sel.Asset)
	assert.Contains(t, rec.Body.String(), "£68941.28")

	rec = serve(engine, http.MethodPost, "/partials/widget/asset", url.Values{"asset": {"DOGE"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown asset")
	assert.Equal(t, models.AssetBitcoin, w.sel.Asset)
}

func TestSwitchCurrency(t *testing.T) {
	w := &stubWidget{sel: models.DefaultSelection()}
	engine := setupRouter(t, w)

	rec := serve(engine, http.MethodPost, "/partials/widget/currency", url.Values{"currency": {"usd"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.CurrencyUSD, w.sel.Currency)
	assert.Contains(t, rec.Body.String(), "$2933.91")

	rec = serve(engine, http.MethodPost, "/partials/widget/currency", url.Values{"currency": {"jpy"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.CurrencyUSD, w.sel.Currency)
}

func TestRefresh(t *testing.T) {
	w := &stubWidget{sel: models.DefaultSelection()}
	engine := setupRouter(t, w)

	rec := serve(engine, http.MethodPost, "/partials/widget/refresh", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, w.refresh)
}

func TestCustomTemplatesAndPoll(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html":    {Data: []byte(`{{define "base"}}<main>{{template "content" .}}</main>{{end}}`)},
		"pages/widget.html":    {Data: []byte(`{{define "content"}}{{template "widget" .View}}{{end}}`)},
		"partials/widget.html": {Data: []byte(`{{define "widget"}}{{.Snapshot.Label}}|{{.PollSeconds}}{{end}}`)},
	}
	engine := setupRouter(t, &stubWidget{sel: models.DefaultSelection()},
		WithTemplates(fsys), WithPollInterval(5*time.Second))

	rec := serve(engine, http.MethodGet, "/", nil)
	assert.Equal(t, "<main>ETHEREUM - ETH|5</main>", rec.Body.String())
}

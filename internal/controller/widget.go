package controller

import (
	"context"
	"errors"
	"net/http"

	"pricewidget/internal/models"
	"pricewidget/internal/state"

	"github.com/gin-gonic/gin"
)

type SelectAssetRequest struct {
	Asset string `json:"asset" binding:"required"`
}

type SwitchCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type MenuRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// GetWidget godoc
// @Summary Current widget state
// @Tags widget
// @Produce json
// @Success 200 {object} state.Snapshot
// @Router /api/widget [get]
func (c *Controller) GetWidget(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// SelectAsset godoc
// @Summary Select the displayed asset
// @Description Accepts the asset name (BITCOIN) or its label (BITCOIN - BTC). Fetches a fresh quote before responding; a failed fetch is reported in the snapshot.
// @Tags widget
// @Accept json
// @Produce json
// @Param request body SelectAssetRequest true "Asset"
// @Success 200 {object} state.Snapshot
// @Failure 400 {object} APIError
// @Router /api/widget/asset [post]
func (c *Controller) SelectAsset(ctx *gin.Context) {
	var req SelectAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "Invalid request body", err.Error())
		return
	}

	asset, err := models.ParseAsset(req.Asset)
	if err != nil {
		badRequestWithDetails(ctx, "Invalid asset", err.Error())
		return
	}

	if err := c.widget.SelectAsset(detach(ctx), asset); err != nil {
		if errors.Is(err, state.ErrInvalidAsset) {
			badRequestWithDetails(ctx, "Invalid asset", err.Error())
			return
		}
		c.logger.Warn("quote fetch after asset selection failed", "asset", asset, "error", err)
	}

	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// SwitchCurrency godoc
// @Summary Switch the display currency
// @Tags widget
// @Accept json
// @Produce json
// @Param request body SwitchCurrencyRequest true "Currency code (gbp, usd)"
// @Success 200 {object} state.Snapshot
// @Failure 400 {object} APIError
// @Router /api/widget/currency [post]
func (c *Controller) SwitchCurrency(ctx *gin.Context) {
	var req SwitchCurrencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "Invalid request body", err.Error())
		return
	}

	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		badRequestWithDetails(ctx, "Invalid currency", err.Error())
		return
	}

	if err := c.widget.SwitchCurrency(currency); err != nil {
		badRequestWithDetails(ctx, "Invalid currency", err.Error())
		return
	}

	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// Refresh godoc
// @Summary Refresh the quote for the selected asset
// @Description Responds 200 even when the fetch fails; the snapshot keeps the last good price and carries fetch_error.
// @Tags widget
// @Produce json
// @Success 200 {object} state.Snapshot
// @Router /api/widget/refresh [post]
func (c *Controller) Refresh(ctx *gin.Context) {
	if err := c.widget.Refresh(detach(ctx)); err != nil {
		c.logger.Warn("refresh failed", "error", err)
	}
	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// SetMenu godoc
// @Summary Open or close the asset menu
// @Tags widget
// @Accept json
// @Produce json
// @Param request body MenuRequest true "Menu state"
// @Success 200 {object} state.Snapshot
// @Failure 400 {object} APIError
// @Router /api/widget/menu [post]
func (c *Controller) SetMenu(ctx *gin.Context) {
	var req MenuRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "Invalid request body", err.Error())
		return
	}
	c.widget.SetMenuOpen(*req.Open)
	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// ToggleMenu godoc
// @Summary Toggle the asset menu
// @Tags widget
// @Produce json
// @Success 200 {object} state.Snapshot
// @Router /api/widget/menu/toggle [post]
func (c *Controller) ToggleMenu(ctx *gin.Context) {
	c.widget.ToggleMenu()
	ctx.JSON(http.StatusOK, c.widget.Snapshot())
}

// ListAssets godoc
// @Summary Supported assets
// @Tags widget
// @Produce json
// @Success 200 {array} models.AssetInfo
// @Router /api/assets [get]
func (c *Controller) ListAssets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Assets())
}

// ListCurrencies godoc
// @Summary Supported display currencies
// @Tags widget
// @Produce json
// @Success 200 {array} models.CurrencyInfo
// @Router /api/currencies [get]
func (c *Controller) ListCurrencies(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Currencies())
}

// A client hanging up mid-fetch should not record a failed quote.
func detach(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}

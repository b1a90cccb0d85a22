package state

import (
	"pricewidget/internal/models"
	"pricewidget/pkg/types/quotes"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAsset    = models.ErrInvalidAsset
	ErrInvalidCurrency = models.ErrInvalidCurrency
	ErrFetchFailed     = quotes.ErrFetchFailed
	ErrPersistFailed   = errors.New("selection persistence failed")

	ErrAlreadyInitialized      = errors.New("price state already initialized")
	ErrInvalidPriceStateConfig = errors.New("invalid price state config")
)

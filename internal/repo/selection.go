package repo

import (
	"pricewidget/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	SettingAsset    = "crypto_coin"
	SettingCurrency = "currency"
)

var ErrCorruptSetting = errors.New("stored setting is not a supported value")

// LoadSelection reads the two selection entries. found reports whether either
// entry exists; a missing entry falls back to its default. When a stored value
// cannot be parsed the default is substituted and ErrCorruptSetting is
// returned alongside the usable selection.
func (r *Repository) LoadSelection() (models.Selection, bool, error) {
	asset, hasAsset, err := r.GetSetting(SettingAsset)
	if err != nil {
		return models.DefaultSelection(), false, errors.Wrap(err, "failed to read asset setting")
	}
	currency, hasCurrency, err := r.GetSetting(SettingCurrency)
	if err != nil {
		return models.DefaultSelection(), false, errors.Wrap(err, "failed to read currency setting")
	}
	return selectionFromSettings(asset, hasAsset, currency, hasCurrency)
}

func (r *Repository) SaveSelection(sel models.Selection) error {
	if !sel.Valid() {
		return errors.Errorf("refusing to save invalid selection %+v", sel)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := saveSetting(tx, SettingAsset, sel.Asset.Label()); err != nil {
			return errors.Wrap(err, "failed to save asset setting")
		}
		if err := saveSetting(tx, SettingCurrency, sel.Currency.Code()); err != nil {
			return errors.Wrap(err, "failed to save currency setting")
		}
		return nil
	})
}

func selectionFromSettings(asset string, hasAsset bool, currency string, hasCurrency bool) (models.Selection, bool, error) {
	sel := models.DefaultSelection()
	var corrupt []string

	if hasAsset {
		a, err := models.ParseAsset(asset)
		if err != nil {
			corrupt = append(corrupt, SettingAsset)
		} else {
			sel.Asset = a
		}
	}
	if hasCurrency {
		c, err := models.ParseCurrency(currency)
		if err != nil {
			corrupt = append(corrupt, SettingCurrency)
		} else {
			sel.Currency = c
		}
	}

	found := hasAsset || hasCurrency
	if len(corrupt) > 0 {
		return sel, found, errors.Wrapf(ErrCorruptSetting, "%v", corrupt)
	}
	return sel, found, nil
}

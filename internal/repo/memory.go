package repo

import (
	"pricewidget/internal/models"
	"pricewidget/pkg/integrations/memcache"
	"pricewidget/pkg/types/cache"

	"github.com/pkg/errors"
)

// MemoryStore keeps the selection entries in process memory. It backs the
// "memory" store type and tests; nothing survives a restart.
type MemoryStore struct {
	settings cache.Cache[string, string]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: memcache.New[string, string]()}
}

func (m *MemoryStore) LoadSelection() (models.Selection, bool, error) {
	asset, hasAsset := m.settings.Get(SettingAsset)
	currency, hasCurrency := m.settings.Get(SettingCurrency)
	return selectionFromSettings(asset, hasAsset, currency, hasCurrency)
}

func (m *MemoryStore) SaveSelection(sel models.Selection) error {
	if !sel.Valid() {
		return errors.Errorf("refusing to save invalid selection %+v", sel)
	}
	m.settings.Set(SettingAsset, sel.Asset.Label())
	m.settings.Set(SettingCurrency, sel.Currency.Code())
	return nil
}

func (m *MemoryStore) SaveSetting(key, value string) error {
	m.settings.Set(key, value)
	return nil
}

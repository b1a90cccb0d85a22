package repo

import (
	"time"

	"pricewidget/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetSetting(key string) (string, bool, error) {
	var setting models.Setting
	err := r.db.Where(&models.Setting{Key: key}).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

func (r *Repository) SaveSetting(key, value string) error {
	return saveSetting(r.db, key, value)
}

func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where(&models.Setting{Key: key}).Delete(&models.Setting{}).Error
}

func saveSetting(db *gorm.DB, key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

package repo

import (
	"testing"

	"pricewidget/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))
	return db
}

func TestNew_NilDatabase(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilDatabase)
}

func TestRepository_Migrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	repository, err := New(db)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate())
	require.True(t, db.Migrator().HasTable(&models.Setting{}))
}

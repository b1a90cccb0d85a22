package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repository, err := New(db)
	require.NoError(t, err)

	_, ok, err := repository.GetSetting("currency")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repository.SaveSetting("currency", "gbp"))
	got, ok, err := repository.GetSetting("currency")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "gbp", got)

	require.NoError(t, repository.SaveSetting("currency", "usd"))
	got, _, err = repository.GetSetting("currency")
	require.NoError(t, err)
	require.Equal(t, "usd", got)

	var count int64
	require.NoError(t, db.Table("settings").Count(&count).Error)
	require.Equal(t, int64(1), count)

	require.NoError(t, repository.DeleteSetting("currency"))
	_, ok, err = repository.GetSetting("currency")
	require.NoError(t, err)
	require.False(t, ok)
}

package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnv_Existing(t *testing.T) {
	t.Setenv("FOO_BAR", "qux")
	val := GetEnv("FOO_BAR", "baz")
	require.Equal(t, "qux", val)
}

func TestGetEnv_Default(t *testing.T) {
	os.Unsetenv("FOO_BAR")
	val := GetEnv("FOO_BAR", "baz")
	require.Equal(t, "baz", val)
}

func TestGetEnv_EmptyUsesDefault(t *testing.T) {
	t.Setenv("FOO_BAR", "")
	require.Equal(t, "baz", GetEnv("FOO_BAR", "baz"))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "45s")
	require.Equal(t, 45*time.Second, GetEnvDuration("REFRESH_INTERVAL", time.Minute))

	t.Setenv("REFRESH_INTERVAL", "soon")
	require.Equal(t, time.Minute, GetEnvDuration("REFRESH_INTERVAL", time.Minute))
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WIDGET_TEST_KEY=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("WIDGET_TEST_KEY") })

	LoadEnv(path)
	require.Equal(t, "from-file", GetEnv("WIDGET_TEST_KEY", ""))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	require.NotPanics(t, func() { LoadEnv(filepath.Join(t.TempDir(), "absent.env")) })
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fintrack/go-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/api/", cfg.BaseURL)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://money.example.com/api/
email: alice@example.com
refresh_timeout: 5s
log_level: debug
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://money.example.com/api/", cfg.BaseURL)
	require.Equal(t, "alice@example.com", cfg.Email)
	require.Equal(t, config.Duration(5*time.Second), cfg.RefreshTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.com/api/\n"), 0o600))

	t.Setenv("FINTRACK_BASE_URL", "https://env.example.com/api/")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com/api/", cfg.BaseURL)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/api/", cfg.BaseURL)
}

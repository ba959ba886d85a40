package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formguard/internal/board/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "./data/board.db", cfg.Database.DSN)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 9000\nauth:\n  token_ttl: 1h\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FORMGUARD_DATABASE_DSN", "/tmp/other.db")
	t.Setenv("FORMGUARD_AUTH_SECRET", "s3cret")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.Secret)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

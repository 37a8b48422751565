package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"CONFIG_FILE", "TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL", "OPENAI_API_KEY", "PORT", "DB_PATH", "LOG_LEVEL", "SEARCH_WORKERS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 6, c.Search.MaxAssets)
	assert.Equal(t, 0, c.Search.Workers)
	assert.Equal(t, "SPY", c.Search.Benchmark)
	assert.Equal(t, 24*time.Hour, c.Cache.PriceTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "optimizer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
db_path: /tmp/x.db
search:
  max_assets: 4
  workers: 2
  benchmark: QQQ
cache:
  price_ttl: 1h
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_WORKERS", "8")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port, "env wins over file")
	assert.Equal(t, "/tmp/x.db", c.DBPath)
	assert.Equal(t, 4, c.Search.MaxAssets)
	assert.Equal(t, 8, c.Search.Workers)
	assert.Equal(t, "QQQ", c.Search.Benchmark)
	assert.Equal(t, "Portfolio.png", c.Search.ChartPath)
	assert.Equal(t, time.Hour, c.Cache.PriceTTL)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_WORKERS", "many")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  workers: -1\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	_, err = Load()
	assert.Error(t, err)
}

func TestValidateBot(t *testing.T) {
	c := defaults()
	assert.Error(t, c.ValidateBot())
	c.TelegramToken = "t"
	assert.Error(t, c.ValidateBot())
	c.WebhookPublicURL = "https://example.com"
	assert.NoError(t, c.ValidateBot())
}

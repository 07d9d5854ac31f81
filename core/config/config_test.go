package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30, cfg.WooCommerce.Timeout)
	assert.Equal(t, 3, cfg.WooCommerce.MaxRetries)
	assert.Equal(t, 100, cfg.WooCommerce.PerPage)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, 300, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.BackfillSKU)
	assert.False(t, cfg.Sync.DryRun)
	assert.Equal(t, 10, cfg.Sync.ReorderThreshold)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "stock-sync:cycle", cfg.Redis.Key)
	assert.Equal(t, 900, cfg.Redis.TTLSeconds)
	assert.Equal(t, "stock-sync-events", cfg.Kafka.Topic)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("WOOCOMMERCE_API_URL", "https://shop.example.com")
	t.Setenv("WOOCOMMERCE_CONSUMER_KEY", "ck")
	t.Setenv("WOOCOMMERCE_CONSUMER_SECRET", "cs")
	t.Setenv("NOTION_TOKEN", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")
	t.Setenv("SYNC_INTERVAL", "60")
	t.Setenv("SYNC_DRY_RUN", "true")
	t.Setenv("REDIS_LOCK_TTL_SECONDS", "120")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.WooCommerce.APIURL)
	assert.Equal(t, "ck", cfg.WooCommerce.ConsumerKey)
	assert.Equal(t, "secret", cfg.Notion.Token)
	assert.Equal(t, 60, cfg.Sync.Interval)
	assert.True(t, cfg.Sync.DryRun)
	assert.Equal(t, 120, cfg.Redis.TTLSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDotEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSYNC_REORDER_THRESHOLD=25\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SYNC_REORDER_THRESHOLD") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 25, cfg.Sync.ReorderThreshold)
}

func TestValidate(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "woocommerce.api_url is required")

	cfg.WooCommerce.APIURL = "https://shop.example.com"
	cfg.WooCommerce.ConsumerKey = "ck"
	cfg.WooCommerce.ConsumerSecret = "cs"
	cfg.Notion.Token = "t"
	cfg.Notion.DatabaseID = "d"
	assert.NoError(t, cfg.Validate())

	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = " , "
	assert.ErrorContains(t, cfg.Validate(), "kafka.brokers")
}

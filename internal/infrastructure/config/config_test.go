package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SHOPBRIDGE_APP_NAME":             os.Getenv("SHOPBRIDGE_APP_NAME"),
		"SHOPBRIDGE_APP_ENV":              os.Getenv("SHOPBRIDGE_APP_ENV"),
		"SHOPBRIDGE_APP_PORT":             os.Getenv("SHOPBRIDGE_APP_PORT"),
		"SHOPBRIDGE_SHOPIFY_SHOP_DOMAIN":  os.Getenv("SHOPBRIDGE_SHOPIFY_SHOP_DOMAIN"),
		"SHOPBRIDGE_SHOPIFY_ACCESS_TOKEN": os.Getenv("SHOPBRIDGE_SHOPIFY_ACCESS_TOKEN"),
		"SHOPBRIDGE_SHOPIFY_DRIVER":       os.Getenv("SHOPBRIDGE_SHOPIFY_DRIVER"),
		"SHOPBRIDGE_SYNC_MIN_HOURS_AGO":   os.Getenv("SHOPBRIDGE_SYNC_MIN_HOURS_AGO"),
		"SHOPBRIDGE_SYNC_MAX_HOURS_AGO":   os.Getenv("SHOPBRIDGE_SYNC_MAX_HOURS_AGO"),
		"SHOPBRIDGE_QUEUE_BACKEND":        os.Getenv("SHOPBRIDGE_QUEUE_BACKEND"),
		"SHOPBRIDGE_REDIS_HOST":           os.Getenv("SHOPBRIDGE_REDIS_HOST"),
		"SHOPBRIDGE_REDIS_PORT":           os.Getenv("SHOPBRIDGE_REDIS_PORT"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shopbridge", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "rest", cfg.Shopify.Driver)
		assert.Equal(t, 1, cfg.Sync.MinHoursAgo)
		assert.Equal(t, 72, cfg.Sync.MaxHoursAgo)
		assert.Equal(t, "memory", cfg.Queue.Backend)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
	})

	t.Run("loads values from environment variables with SHOPBRIDGE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPBRIDGE_APP_NAME", "test-app")
		os.Setenv("SHOPBRIDGE_APP_PORT", "9000")
		os.Setenv("SHOPBRIDGE_SHOPIFY_SHOP_DOMAIN", "test-shop.myshopify.com")
		os.Setenv("SHOPBRIDGE_SHOPIFY_ACCESS_TOKEN", "shpat_test")
		os.Setenv("SHOPBRIDGE_SHOPIFY_DRIVER", "graphql")
		os.Setenv("SHOPBRIDGE_SYNC_MIN_HOURS_AGO", "2")
		os.Setenv("SHOPBRIDGE_SYNC_MAX_HOURS_AGO", "48")
		os.Setenv("SHOPBRIDGE_QUEUE_BACKEND", "redis")
		os.Setenv("SHOPBRIDGE_REDIS_HOST", "redis.local")
		os.Setenv("SHOPBRIDGE_REDIS_PORT", "6380")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "test-shop.myshopify.com", cfg.Shopify.ShopDomain)
		assert.Equal(t, "shpat_test", cfg.Shopify.AccessToken)
		assert.Equal(t, "graphql", cfg.Shopify.Driver)
		assert.Equal(t, 2, cfg.Sync.MinHoursAgo)
		assert.Equal(t, 48, cfg.Sync.MaxHoursAgo)
		assert.Equal(t, "redis", cfg.Queue.Backend)
		assert.Equal(t, "redis.local", cfg.Redis.Host)
		assert.Equal(t, 6380, cfg.Redis.Port)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPBRIDGE_SHOPIFY_DRIVER", "soap")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify.driver")
	})

	t.Run("rejects unknown queue backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPBRIDGE_QUEUE_BACKEND", "kafka")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue.backend")
	})

	t.Run("rejects inverted sync window", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPBRIDGE_SYNC_MIN_HOURS_AGO", "72")
		os.Setenv("SHOPBRIDGE_SYNC_MAX_HOURS_AGO", "1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sync.min_hours_ago")
	})

	t.Run("requires credentials in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOPBRIDGE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shop_domain")
	})
}

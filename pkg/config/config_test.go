package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", c.API.BaseURL)
	assert.Equal(t, ModeAuto, c.API.Mode)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.Equal(t, 100, c.Dashboard.WindowSize)
	assert.Equal(t, 15*time.Second, c.Dashboard.PriceRefresh)
	assert.Equal(t, 5*time.Second, c.Dashboard.SentimentRefresh)
	assert.Equal(t, 10*time.Second, c.Dashboard.SocialRefresh)
	assert.Equal(t, 15, c.Dashboard.SocialFeedSize)
}

func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
api:
  mode: synthetic
dashboard:
  symbol: ETH
  window_size: 50
  price_refresh: 2s
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, ModeSynthetic, c.API.Mode)
	assert.Equal(t, "ETH", c.Dashboard.Symbol)
	assert.Equal(t, 50, c.Dashboard.WindowSize)
	assert.Equal(t, 2*time.Second, c.Dashboard.PriceRefresh)
	assert.Equal(t, 5*time.Second, c.Dashboard.SentimentRefresh)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  mode: sometimes\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.mode")
}

func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Setenv("DASHBOARD_API_URL", "http://backend:9000/api")
	t.Setenv("DASHBOARD_API_MODE", "remote")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("SYMBOL", "BTC")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "not-a-number")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000/api", c.API.BaseURL)
	assert.Equal(t, ModeRemote, c.API.Mode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, "cache", c.Redis.Host)
	assert.Equal(t, 6380, c.Redis.Port)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 0, c.Redis.DB)
}

func TestLoadWithEnv_BadRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "nohost")
	_, err := LoadWithEnv("")
	assert.Error(t, err)
}

func TestValidate_KafkaSourceNeedsKafka(t *testing.T) {
	c := Default()
	c.Dashboard.Source = SourceKafka
	assert.Error(t, c.Validate())

	c.Kafka.Enabled = true
	assert.NoError(t, c.Validate())
}

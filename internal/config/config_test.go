package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "elasticsearch", cfg.SearchEngine)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.SearchCacheTTL)
	assert.True(t, cfg.SearchCacheTTL < cfg.CacheTTL)
	assert.Equal(t, 500, cfg.SlowQueryThresholdMs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PRODUCT_HTTP_PORT", "9999")
	t.Setenv("SEARCH_ENGINE", "memory")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.SearchEngine)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidSearchEngine(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SearchTTLNotShorterThanCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("SEARCH_CACHE_TTL", "1m")

	_, err := Load()
	assert.ErrorContains(t, err, "search cache TTL")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PRODUCT_HTTP_PORT", "0")

	_, err := Load()
	assert.Error(t, err)
}

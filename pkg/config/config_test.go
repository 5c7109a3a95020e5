package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int      `env:"CATALOG_TEST_PORT" envDefault:"8080"`
	Host     string   `env:"CATALOG_TEST_HOST" envDefault:"localhost"`
	LogLevel string   `env:"CATALOG_TEST_LOG_LEVEL" envDefault:"info"`
	Tags     []string `env:"CATALOG_TEST_TAGS" envDefault:"a,b" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("CATALOG_TEST_PORT", "9090")
	t.Setenv("CATALOG_TEST_HOST", "0.0.0.0")
	t.Setenv("CATALOG_TEST_TAGS", "x,y,z")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Tags)
}

type requiredConfig struct {
	Secret string `env:"CATALOG_TEST_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("CATALOG_TEST_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
}

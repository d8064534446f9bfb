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
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "ENVIRONMENT", "STORAGE_DRIVER", "SQLITE_PATH",
		"TABLE_NAME", "GSI1_INDEX_NAME", "EVENT_BUS_NAME", "AUTH_ENABLED", "JWT_SECRET",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "FIT_TIMEOUT", "MAX_CONCURRENT_FITS", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.ServerAddress)
	assert.Equal(t, StorageSQLite, cfg.StorageDriver)
	assert.Equal(t, "./bindfit.db", cfg.SQLitePath)
	assert.False(t, cfg.AuthEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9000"
storage_driver: memory
fit_timeout: 45s
rate_limit_rps: 2.5
cors_origins:
  - https://example.org
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9100")
	t.Setenv("MAX_CONCURRENT_FITS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ServerAddress, "environment wins over the file")
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 45*time.Second, cfg.FitTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://example.org"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.MaxConcurrentFits)
	assert.Equal(t, path, cfg.LoadedFrom)
}

func TestLoadConfig_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.StorageDriver = "postgres" }, true},
		{"auth without secret", func(c *Config) { c.AuthEnabled = true }, true},
		{"production memory", func(c *Config) { c.Environment = "production"; c.StorageDriver = StorageMemory }, true},
		{"production short secret", func(c *Config) {
			c.Environment = "production"
			c.AuthEnabled = true
			c.JWTSecret = "short"
		}, true},
		{"dynamodb without table", func(c *Config) { c.StorageDriver = StorageDynamoDB; c.DynamoDBTable = "" }, true},
		{"negative burst", func(c *Config) { c.RateLimitBurst = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}

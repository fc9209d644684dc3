package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/dom/movie-night/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "DATABASE_URL", "MONGO_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "TOKEN_CACHE_TTL",
	"AMQP_URL", "AMQP_EXCHANGE",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.DatabaseURL, "postgres://")
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.TokenCacheTTL)
	assert.Empty(t, cfg.AMQPURL)
	assert.Equal(t, "movie.events", cfg.AMQPExchange)
	assert.False(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(*testing.T, *config.Config)
		wantErr bool
	}{
		{
			name: "explicit values",
			env: map[string]string{
				"PORT":               "9000",
				"ENVIRONMENT":        "production",
				"DATABASE_URL":       "postgres://u:p@db:5432/movies",
				"REDIS_ADDR":         "cache:6379",
				"REDIS_DB":           "2",
				"TOKEN_CACHE_TTL":    "30s",
				"RATE_LIMIT_ENABLED": "true",
				"RATE_LIMIT_RPS":     "2.5",
				"RATE_LIMIT_BURST":   "5",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "9000", cfg.Port)
				assert.True(t, cfg.IsProduction())
				assert.Equal(t, "postgres://u:p@db:5432/movies", cfg.DatabaseURL)
				assert.Equal(t, "cache:6379", cfg.RedisAddr)
				assert.Equal(t, 2, cfg.RedisDB)
				assert.Equal(t, 30*time.Second, cfg.TokenCacheTTL)
				assert.True(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRPS)
				assert.Equal(t, 5, cfg.RateLimitBurst)
			},
		},
		{
			name: "legacy connection string variable",
			env:  map[string]string{"MONGO_URL": "postgres://legacy/db"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "postgres://legacy/db", cfg.DatabaseURL)
			},
		},
		{
			name: "malformed numbers fall back",
			env:  map[string]string{"REDIS_DB": "x", "TOKEN_CACHE_TTL": "soon"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 0, cfg.RedisDB)
				assert.Equal(t, 15*time.Minute, cfg.TokenCacheTTL)
			},
		},
		{
			name:    "empty database url",
			env:     map[string]string{"DATABASE_URL": ""},
			wantErr: true,
		},
		{
			name:    "rate limit without capacity",
			env:     map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_RPS": "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

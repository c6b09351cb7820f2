package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danurwenda/identity-service/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with required vars set", func(t *testing.T) {
		viper.Reset()
		t.Setenv("DB_URL", "postgres://localhost:5432/identity")
		t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "postgres://localhost:5432/identity", cfg.DBURL)
		assert.Equal(t, "test-secret", cfg.AccessTokenSecret)
		assert.Equal(t, 15, cfg.AccessExpiryMin)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, 5, cfg.MaxFailedAttempts)
		assert.Equal(t, 15, cfg.AttemptWindowMin)
		assert.Equal(t, 15, cfg.LockoutMin)
		assert.Equal(t, 24, cfg.SessionTTLHours)
		assert.Equal(t, 90, cfg.RetentionDays)
		assert.Equal(t, 10, cfg.SweepIntervalMin)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		viper.Reset()
		t.Setenv("DB_URL", "postgres://localhost:5432/identity")
		t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
		t.Setenv("ENV", "production")
		t.Setenv("PORT", "9090")
		t.Setenv("MAX_FAILED_ATTEMPTS", "3")
		t.Setenv("SESSION_TTL_HOURS", "8")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 3, cfg.MaxFailedAttempts)
		assert.Equal(t, 8, cfg.SessionTTLHours)
	})

	t.Run("missing DB_URL", func(t *testing.T) {
		viper.Reset()
		t.Setenv("DB_URL", "")
		t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_URL")
	})

	t.Run("missing ACCESS_TOKEN_SECRET", func(t *testing.T) {
		viper.Reset()
		t.Setenv("DB_URL", "postgres://localhost:5432/identity")
		t.Setenv("ACCESS_TOKEN_SECRET", "")

		_, err := config.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET")
	})
}

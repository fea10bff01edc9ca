package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing secret is fatal", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "")

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "s3cret")
		t.Setenv("APP_ENV", "")
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("APP_FAIL_FAST", "")
		t.Setenv("AUTH_TOKEN_TTL_HOURS", "")
		t.Setenv("OPERATOR_USERNAME", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
		assert.Equal(t, "development", cfg.App.Env)
		assert.False(t, cfg.App.FailFast)
		assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
		assert.Equal(t, "admin", cfg.Operator.Username)
	})

	t.Run("production fails fast unless overridden", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "s3cret")
		t.Setenv("APP_ENV", "production")
		t.Setenv("APP_FAIL_FAST", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.FailFast)

		t.Setenv("APP_FAIL_FAST", "false")
		cfg, err = Load()
		require.NoError(t, err)
		assert.False(t, cfg.App.FailFast)
	})

	t.Run("operator credential is overridable", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "s3cret")
		t.Setenv("OPERATOR_USERNAME", "dispatch")
		t.Setenv("OPERATOR_PASSWORD", "n1ghtshift")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dispatch", cfg.Operator.Username)
		assert.Equal(t, "n1ghtshift", cfg.Operator.Password)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "s3cret")
		t.Setenv("STORE_DRIVER", "mongo")

		_, err := Load()
		assert.ErrorContains(t, err, "unknown STORE_DRIVER")
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		t.Setenv("AUTH_JWT_SECRET", "s3cret")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("POSTGRES_DSN", "")

		_, err := Load()
		assert.ErrorContains(t, err, "POSTGRES_DSN")
	})
}

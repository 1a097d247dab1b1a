package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"DMS_APP_NAME",
	"DMS_APP_ENV",
	"DMS_APP_PORT",
	"DMS_DATABASE_HOST",
	"DMS_DATABASE_PORT",
	"DMS_DATABASE_USER",
	"DMS_DATABASE_PASSWORD",
	"DMS_DATABASE_DBNAME",
	"DMS_DATABASE_SSLMODE",
	"DMS_DATABASE_MAX_OPEN_CONNS",
	"DMS_DATABASE_MAX_IDLE_CONNS",
	"DMS_JWT_SECRET",
	"DMS_POSTING_BALANCE_TOLERANCE",
	"DMS_POSTING_REQUIRE_BALANCED",
	"DMS_POSTING_LEGACY_BANKERS_ROUNDING",
	"DMS_POSTING_IDEMPOTENCY_TTL",
}

func withCleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		if had {
			t.Cleanup(func() { os.Setenv(k, original) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		withCleanEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "dms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "dms", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 0.01, cfg.Posting.BalanceTolerance)
		assert.Equal(t, 24*time.Hour, cfg.Posting.IdempotencyTTL)
		assert.False(t, cfg.Posting.RequireBalanced)
		assert.False(t, cfg.Posting.LegacyBankersRounding)
	})

	t.Run("loads values from environment variables with DMS prefix", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("DMS_APP_NAME", "test-app")
		os.Setenv("DMS_APP_PORT", "9000")
		os.Setenv("DMS_DATABASE_HOST", "testdb.local")
		os.Setenv("DMS_DATABASE_PORT", "5433")
		os.Setenv("DMS_POSTING_REQUIRE_BALANCED", "true")
		os.Setenv("DMS_POSTING_BALANCE_TOLERANCE", "0.5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Posting.RequireBalanced)
		assert.Equal(t, 0.5, cfg.Posting.BalanceTolerance)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("DMS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("DMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("negative balance tolerance is rejected", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("DMS_POSTING_BALANCE_TOLERANCE", "-0.01")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "balance_tolerance")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("DMS_APP_ENV", "production")
		os.Setenv("DMS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("DMS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("DMS_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("DMS_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters", func(t *testing.T) {
		setValidProductionBase(t)
		os.Setenv("DMS_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("DMS_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Setenv("DMS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode cannot be 'disable'")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

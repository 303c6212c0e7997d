package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"GRANADA_APP_NAME":          os.Getenv("GRANADA_APP_NAME"),
		"GRANADA_APP_ENV":           os.Getenv("GRANADA_APP_ENV"),
		"GRANADA_APP_PORT":          os.Getenv("GRANADA_APP_PORT"),
		"GRANADA_DATABASE_HOST":     os.Getenv("GRANADA_DATABASE_HOST"),
		"GRANADA_DATABASE_PORT":     os.Getenv("GRANADA_DATABASE_PORT"),
		"GRANADA_DATABASE_USER":     os.Getenv("GRANADA_DATABASE_USER"),
		"GRANADA_DATABASE_PASSWORD": os.Getenv("GRANADA_DATABASE_PASSWORD"),
		"GRANADA_DATABASE_DBNAME":   os.Getenv("GRANADA_DATABASE_DBNAME"),
		"GRANADA_DATABASE_SSLMODE":  os.Getenv("GRANADA_DATABASE_SSLMODE"),
		"GRANADA_JWT_SECRET":        os.Getenv("GRANADA_JWT_SECRET"),
		"GRANADA_STORAGE_DRIVER":    os.Getenv("GRANADA_STORAGE_DRIVER"),
		"GRANADA_STORAGE_S3_BUCKET": os.Getenv("GRANADA_STORAGE_S3_BUCKET"),
		"GRANADA_GEO_ENABLED":       os.Getenv("GRANADA_GEO_ENABLED"),
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

		assert.Equal(t, "granada-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "granada", cfg.Database.DBName)
		assert.Equal(t, "local", cfg.Storage.Driver)
		assert.Equal(t, 2*time.Second, cfg.Analytics.FlushInterval)
		assert.Equal(t, 30*time.Minute, cfg.Analytics.SessionTTL)
		assert.Equal(t, 24*time.Hour, cfg.Payment.IdempotencyTTL)
		assert.Equal(t, time.Hour, cfg.Scheduler.ExpirySweepInterval)
	})

	t.Run("loads values from environment variables with GRANADA prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("GRANADA_APP_NAME", "test-app")
		os.Setenv("GRANADA_APP_PORT", "9000")
		os.Setenv("GRANADA_DATABASE_HOST", "testdb.local")
		os.Setenv("GRANADA_DATABASE_PORT", "5433")
		os.Setenv("GRANADA_DATABASE_USER", "testuser")
		os.Setenv("GRANADA_DATABASE_PASSWORD", "testpass")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
	})

	t.Run("s3 storage requires a bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("GRANADA_STORAGE_DRIVER", "s3")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("GRANADA_STORAGE_S3_BUCKET", "granada-documents")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "s3", cfg.Storage.Driver)
	})

	t.Run("unknown storage driver is rejected", func(t *testing.T) {
		clearEnv()
		os.Setenv("GRANADA_STORAGE_DRIVER", "ftp")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("enabled geo requires a database path", func(t *testing.T) {
		clearEnv()
		os.Setenv("GRANADA_GEO_ENABLED", "true")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("GRANADA_APP_ENV", "production")
		os.Setenv("GRANADA_DATABASE_PASSWORD", "secret")
		os.Setenv("GRANADA_DATABASE_SSLMODE", "require")

		_, err := Load()
		assert.Error(t, err)

		os.Setenv("GRANADA_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "granada",
		Password: "p@ss/word",
		DBName:   "granada",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word") // must be escaped
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}

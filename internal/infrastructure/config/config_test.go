package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ventureflow", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ventureflow", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, StorageLocal, cfg.Storage.Driver)
		assert.Equal(t, int64(25<<20), cfg.Storage.MaxUploadSize)
		assert.Equal(t, 24*time.Hour, cfg.Event.IdempotencyTTL)
		assert.Equal(t, DefaultTenantID, cfg.Bootstrap.TenantID)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("loads values from environment variables with VF prefix", func(t *testing.T) {
		t.Setenv("VF_APP_NAME", "vf-test")
		t.Setenv("VF_APP_PORT", "9000")
		t.Setenv("VF_DATABASE_DRIVER", "SQLite")
		t.Setenv("VF_DATABASE_PATH", "/tmp/vf.db")
		t.Setenv("VF_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("VF_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("VF_REDIS_ENABLED", "true")
		t.Setenv("VF_STORAGE_DRIVER", "s3")
		t.Setenv("VF_STORAGE_BUCKET", "deal-room")
		t.Setenv("VF_EVENT_IDEMPOTENCY_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "vf-test", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/vf.db", cfg.Database.Path)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, StorageS3, cfg.Storage.Driver)
		assert.Equal(t, "deal-room", cfg.Storage.Bucket)
		assert.Equal(t, 2*time.Hour, cfg.Event.IdempotencyTTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("VF_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("VF_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		t.Setenv("VF_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("bootstrap email needs a password", func(t *testing.T) {
		t.Setenv("VF_BOOTSTRAP_ADMIN_EMAIL", "admin@ventureflow.io")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bootstrap.admin_password")
	})
}

func TestConfig_ValidateProduction(t *testing.T) {
	base := func() *Config {
		cfg, err := decode(newViper())
		require.NoError(t, err)
		cfg.App.Env = "production"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	require.NoError(t, base().validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, "at least 32 characters"},
		{"sslmode disabled", func(c *Config) { c.Database.SSLMode = "disable" }, "sslmode"},
		{"sqlite", func(c *Config) { c.Database.Driver = DriverSQLite }, "sqlite"},
		{"wildcard cors", func(c *Config) { c.HTTP.CORSAllowOrigins = []string{"*"} }, "cors_allow_origins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ListEnvironment(t *testing.T) {
	t.Setenv("VF_HTTP_CORS_ALLOW_ORIGINS", "https://app.ventureflow.io,https://admin.ventureflow.io")
	t.Setenv("VF_HTTP_READ_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.ventureflow.io", "https://admin.ventureflow.io"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Tenant-ID")
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "vf", Password: "p@ss/word", DBName: "ventureflow", SSLMode: "disable"}
	assert.Equal(t, "postgres://vf:p%40ss%2Fword@db:5432/ventureflow?sslmode=disable", d.DSN())
}

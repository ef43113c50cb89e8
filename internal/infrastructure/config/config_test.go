package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "laundry-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "laundry", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "fs", cfg.Storage.Backend)
		assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
		assert.Equal(t, "INR", cfg.Billing.Currency)
		assert.True(t, cfg.Billing.DefaultTaxRate.IsZero())
		assert.Equal(t, time.Hour, cfg.Scheduler.SubscriptionExpiryInterval)
		assert.Equal(t, "laundry.events", cfg.Messaging.Exchange)
		assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
	})

	t.Run("loads values from environment variables with LAUNDRY prefix", func(t *testing.T) {
		t.Setenv("LAUNDRY_APP_NAME", "test-app")
		t.Setenv("LAUNDRY_APP_PORT", "9000")
		t.Setenv("LAUNDRY_DATABASE_DRIVER", "mysql")
		t.Setenv("LAUNDRY_DATABASE_HOST", "testdb.local")
		t.Setenv("LAUNDRY_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("LAUNDRY_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("LAUNDRY_BILLING_DEFAULT_TAX_RATE", "18")
		t.Setenv("LAUNDRY_STORAGE_BACKEND", "s3")
		t.Setenv("LAUNDRY_STORAGE_S3_BUCKET", "laundry-assets")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Billing.DefaultTaxRate.Equal(decimal.NewFromInt(18)))
		assert.Equal(t, "laundry-assets", cfg.Storage.S3.Bucket)
	})

	t.Run("reads config.toml from the working directory", func(t *testing.T) {
		dir := t.TempDir()
		toml := "[app]\nname = \"from-file\"\n\n[analytics]\ncache_ttl = \"90s\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
		t.Chdir(dir)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.App.Name)
		assert.Equal(t, 90*time.Second, cfg.Analytics.CacheTTL)
	})

	t.Run("rejects invalid tax rate", func(t *testing.T) {
		t.Setenv("LAUNDRY_BILLING_DEFAULT_TAX_RATE", "abc")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, "storage.s3.bucket"},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "ftp" }, "storage.backend"},
		{"bad paper", func(c *Config) { c.Printing.PaperSize = "A3" }, "paper_size"},
		{"tax over 100", func(c *Config) { c.Billing.DefaultTaxRate = decimal.NewFromInt(101) }, "tax_rate"},
		{"sampling ratio", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "sampling_ratio"},
		{"production default secret", func(c *Config) {
			c.App.Env = "production"
			c.Database.Password = "x"
		}, "jwt.secret"},
		{"production wildcard cors", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "a-very-long-production-secret-value-123"
			c.Database.Password = "x"
			c.HTTP.CORSAllowOrigins = []string{"*"}
		}, "cors_allow_origins"},
		{"production sqlite", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "a-very-long-production-secret-value-123"
			c.Database.Driver = "sqlite"
		}, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p@ss word", DBName: "laundry", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%20word@db:5432/laundry?sslmode=disable", pg.DSN())

	my := DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", DBName: "laundry"}
	assert.Equal(t, "u:p@tcp(db:3306)/laundry?charset=utf8mb4&parseTime=True&loc=UTC", my.DSN())

	lite := DatabaseConfig{Driver: "sqlite", SQLitePath: "file::memory:"}
	assert.Equal(t, "file::memory:", lite.DSN())
}

func TestMessagingConfig_URL(t *testing.T) {
	m := MessagingConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest", VHost: "laundry"}
	assert.Equal(t, "amqp://guest:guest@mq:5672/laundry", m.URL())
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, time.UTC, AppConfig{}.Location())
}

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Bootstrap BootstrapConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        // sqlite file path
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int           `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int           `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string        `mapstructure:"refresh_secret"`
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string
	MaxRefreshCount        int `mapstructure:"max_refresh_count"`
}

// EventConfig holds domain event processing configuration
type EventConfig struct {
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"` // empty allows no cross-origin requests
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

// Supported storage drivers
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// StorageConfig holds object storage settings for uploads
type StorageConfig struct {
	Driver        string // local or s3
	LocalPath     string `mapstructure:"local_path"`
	PublicBaseURL string `mapstructure:"public_base_url"` // prefix for profile picture URLs
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PathStyle     bool   `mapstructure:"path_style"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

// BootstrapConfig seeds the first admin account
type BootstrapConfig struct {
	TenantID      string `mapstructure:"tenant_id"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

// DefaultTenantID is used when no tenant is configured or sent by a client
const DefaultTenantID = "00000000-0000-0000-0000-000000000001"

// defaults lists every key. Environment overrides only reach keys viper
// knows about, so secrets without a default are listed with an empty value.
var defaults = map[string]any{
	"app.name": "ventureflow",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             DriverPostgres,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "ventureflow",
	"database.sslmode":            "disable",
	"database.path":               "ventureflow.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.auto_migrate":       false,
	"database.log_level":          "warn",
	"database.slow_threshold":     200 * time.Millisecond,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.access_token_expiration":  15 * time.Minute,
	"jwt.refresh_token_expiration": 168 * time.Hour,
	"jwt.issuer":                   "ventureflow",
	"jwt.max_refresh_count":        10,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"event.idempotency_ttl": 24 * time.Hour,

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            30 * time.Second,
	"http.idle_timeout":             60 * time.Second,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            int64(10 << 20),
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	"http.cors_allow_origins":       []string{},
	"http.cors_allow_methods":       []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers":       []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"},
	"http.trusted_proxies":          []string{},

	"storage.driver":          StorageLocal,
	"storage.local_path":      "./storage",
	"storage.public_base_url": "",
	"storage.endpoint":        "",
	"storage.region":          "us-east-1",
	"storage.bucket":          "ventureflow",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.use_ssl":         false,
	"storage.path_style":      false,
	"storage.max_upload_size": int64(25 << 20),

	"bootstrap.tenant_id":      DefaultTenantID,
	"bootstrap.admin_email":    "",
	"bootstrap.admin_password": "",
	"bootstrap.admin_name":     "Administrator",
}

// Load reads configuration with this precedence, highest first:
// VF_ environment variables (VF_DATABASE_PASSWORD), config.toml from the
// working directory or /app, then built-in defaults.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("VF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	return &cfg, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverSQLite {
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Storage.Driver != StorageLocal && c.Storage.Driver != StorageS3 {
		return fmt.Errorf("storage.driver must be %q or %q, got %q", StorageLocal, StorageS3, c.Storage.Driver)
	}
	if c.Storage.Driver == StorageS3 && c.Storage.Endpoint == "" && c.Storage.Region == "" {
		return fmt.Errorf("storage.region or storage.endpoint is required for the s3 driver")
	}
	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		return fmt.Errorf("bootstrap.admin_password is required when bootstrap.admin_email is set")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == DriverSQLite {
			return fmt.Errorf("database.driver cannot be sqlite in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

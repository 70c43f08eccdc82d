package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Logging   LoggingConfig
	Billing   BillingConfig
	Export    ExportConfig
	RateLimit RateLimitConfig
	Realtime  RealtimeConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// RequestTimeout bounds every non-streaming request
	RequestTimeout time.Duration
	FrontendURL    string
	Environment    string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
	CookieSecure       bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// BillingConfig contains billing provider configuration
type BillingConfig struct {
	SecretKey     string
	WebhookSecret string
	BasicPriceID  string
	ProPriceID    string
	SyncEnabled   bool
	SyncSchedule  string
}

// Enabled reports whether a billing provider is configured
func (b BillingConfig) Enabled() bool {
	return b.SecretKey != ""
}

// PriceFor returns the configured price for a plan
func (b BillingConfig) PriceFor(plan string) string {
	switch plan {
	case "basic":
		return b.BasicPriceID
	case "pro":
		return b.ProPriceID
	}
	return ""
}

// ExportConfig contains report export storage configuration
type ExportConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	PresignExpiry   time.Duration
}

// Enabled reports whether exports are uploaded to object storage
func (e ExportConfig) Enabled() bool {
	return e.Bucket != ""
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// RealtimeConfig contains push stream configuration
type RealtimeConfig struct {
	HeartbeatInterval time.Duration
	SessionBuffer     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "bizlytic"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./bizlytic.db"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 7*24*time.Hour),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 30*24*time.Hour),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			CookieSecure:       getEnvAsBool("COOKIE_SECURE", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Billing: BillingConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			BasicPriceID:  getEnv("STRIPE_BASIC_PRICE_ID", ""),
			ProPriceID:    getEnv("STRIPE_PRO_PRICE_ID", ""),
			SyncEnabled:   getEnvAsBool("BILLING_SYNC_ENABLED", true),
			SyncSchedule:  getEnv("BILLING_SYNC_SCHEDULE", "@every 6h"),
		},
		Export: ExportConfig{
			Bucket:          getEnv("EXPORT_S3_BUCKET", ""),
			Region:          getEnv("EXPORT_S3_REGION", "us-east-1"),
			Endpoint:        getEnv("EXPORT_S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("EXPORT_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("EXPORT_S3_SECRET_ACCESS_KEY", ""),
			Prefix:          getEnv("EXPORT_S3_PREFIX", "exports/"),
			PresignExpiry:   getEnvAsDuration("EXPORT_PRESIGN_EXPIRY", 15*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 30),
		},
		Realtime: RealtimeConfig{
			HeartbeatInterval: getEnvAsDuration("REALTIME_HEARTBEAT", 25*time.Second),
			SessionBuffer:     getEnvAsInt("REALTIME_SESSION_BUFFER", 16),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.Server.RequestTimeout)
	}

	if c.Billing.Enabled() && c.Billing.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET must be set when billing is enabled")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("invalid rate limit: %v rps, burst %d", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

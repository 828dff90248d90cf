package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `env:",prefix=SERVER_"`

	// Database configuration
	Database DatabaseConfig `env:",prefix=DB_"`

	// Authentication configuration
	Auth AuthConfig `env:",prefix=AUTH_"`

	// Message broker configuration
	RabbitMQ RabbitMQConfig `env:",prefix=RABBITMQ_"`

	// Error tracking configuration
	Sentry SentryConfig `env:",prefix=SENTRY_"`

	// Per-client request limits
	RateLimit RateLimitConfig `env:",prefix=RATE_LIMIT_"`

	App AppConfig `env:",prefix=APP_"`

	ExportsDir           string `env:"EXPORTS_DIR,default=./exports"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`
	SaleLogRetentionDays int    `env:"SALE_LOG_RETENTION_DAYS,default=90"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `env:"HOST,default=0.0.0.0"`
	Port         string `env:"PORT,default=8080"`
	BasePath     string `env:"BASE_PATH,default=/api/v1"`
	ReadTimeout  int    `env:"READ_TIMEOUT,default=30"`  // seconds
	WriteTimeout int    `env:"WRITE_TIMEOUT,default=30"` // seconds
	H2C          bool   `env:"H2C,default=false"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=postgres"`
	Password string `env:"PASSWORD,default=postgres"`
	Name     string `env:"NAME,default=retail_backoffice"`
	SSLMode  string `env:"SSLMODE,default=disable"`
	MaxConns int    `env:"MAX_CONNS,default=100"`
	MinConns int    `env:"MIN_CONNS,default=10"`
}

// AuthConfig holds token and bootstrap account settings
type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=168h"`
	AdminUsername   string        `env:"ADMIN_USERNAME,default=admin"`
	AdminPassword   string        `env:"ADMIN_PASSWORD"`
}

// RabbitMQConfig holds broker connection settings
type RabbitMQConfig struct {
	Enabled    bool   `env:"ENABLED,default=false"`
	Host       string `env:"HOST,default=localhost"`
	Port       string `env:"PORT,default=5672"`
	User       string `env:"USER,default=guest"`
	Password   string `env:"PASSWORD,default=guest"`
	SalesQueue string `env:"SALES_QUEUE,default=campaign_sales"`
}

// SentryConfig holds Sentry settings; an empty DSN disables reporting
type SentryConfig struct {
	DSN              string  `env:"DSN"`
	Environment      string  `env:"ENVIRONMENT,default=development"`
	TracesSampleRate float64 `env:"TRACES_SAMPLE_RATE,default=1.0"`
}

// RateLimitConfig holds the token bucket applied per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RPS,default=20"`
	Burst             int     `env:"BURST,default=40"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
}

// Load reads .env (if present) and decodes the process environment
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith decodes configuration from the given lookuper
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if !c.App.IsDevelopment() {
			return errors.New("AUTH_JWT_SECRET is required outside development")
		}
		c.Auth.JWTSecret = "development-secret"
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = "/api/v1"
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// GetDatabaseURL returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// GetURL returns the AMQP connection URL
func (c *RabbitMQConfig) GetURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

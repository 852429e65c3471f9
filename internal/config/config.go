package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Report   ReportConfig
	App      AppConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds the report cache configuration. An empty URL disables it.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// ReportConfig holds report engine tuning
type ReportConfig struct {
	MaxParallel       int
	ClockCorrelation  string
	CorrelationWindow time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Load reads the configuration from the environment. A .env file, when
// present, seeds variables that are not already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	driver := strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))

	defaultPort := "5432"
	if driver == DriverMySQL {
		defaultPort = "3306"
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", defaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "zoo"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	cacheTTL, err := time.ParseDuration(getEnv("REPORT_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_CACHE_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		URL: getEnv("REDIS_URL", ""),
		TTL: cacheTTL,
	}

	// Report configuration
	maxParallel, err := strconv.Atoi(getEnv("REPORT_MAX_PARALLEL", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_MAX_PARALLEL: %w", err)
	}

	window, err := time.ParseDuration(getEnv("CLOCK_CORRELATION_WINDOW", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_CORRELATION_WINDOW: %w", err)
	}

	config.Report = ReportConfig{
		MaxParallel:       maxParallel,
		ClockCorrelation:  strings.ToLower(getEnv("CLOCK_CORRELATION", "window")),
		CorrelationWindow: window,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMySQL {
		return fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverMySQL)
	}
	if c.Database.Password == "" && !c.IsLocal() {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Report.MaxParallel <= 0 {
		return fmt.Errorf("REPORT_MAX_PARALLEL must be positive")
	}
	if c.Report.ClockCorrelation != "window" && c.Report.ClockCorrelation != "direct" {
		return fmt.Errorf("CLOCK_CORRELATION must be window or direct")
	}
	if c.Report.CorrelationWindow <= 0 {
		return fmt.Errorf("CLOCK_CORRELATION_WINDOW must be positive")
	}
	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be positive")
	}
	return nil
}

// IsLocal reports whether the app runs in development or test
func (c *Config) IsLocal() bool {
	return c.App.Env == "development" || c.App.Env == "test"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

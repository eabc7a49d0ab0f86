package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"finboard/internal/database"
	"finboard/internal/models"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = database.DriverSQLite
	StoragePostgres = database.DriverPostgres
)

// Config holds application configuration
type Config struct {
	// Server
	Env             string
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	APIKey          string
	CORSOrigin      string

	// Storage
	StorageDriver string
	StoragePath   string
	StorageKey    string

	// Database (postgres storage)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Default settings
	DefaultExpenseCap float64
	DefaultEURRate    float64
	DefaultRWFRate    float64
	DefaultCurrency   models.Currency

	// Forex
	ForexBaseURL        string
	ForexRefreshOnStart bool
	ForexCacheTTL       time.Duration

	// Search
	SearchPatternTimeout time.Duration
	PatternCacheSize     int
	PatternCacheTTL      time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment and
// validates it.
func FromEnv() (*Config, error) {
	p := &parser{}
	driver := getEnv("STORAGE_DRIVER", StorageFile)

	config := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		RequestTimeout:  p.duration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		APIKey:          os.Getenv("API_KEY"),
		CORSOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "*"),

		StorageDriver: driver,
		StoragePath:   getEnv("STORAGE_PATH", defaultStoragePath(driver)),
		StorageKey:    getEnv("STORAGE_KEY", "financeData"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finboard"),
		DBPassword: getEnv("DB_PASSWORD", "finboard"),
		DBName:     getEnv("DB_NAME", "finboard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		DefaultExpenseCap: p.float("DEFAULT_EXPENSE_CAP", 1000),
		DefaultEURRate:    p.float("DEFAULT_EUR_RATE", 1.1),
		DefaultRWFRate:    p.float("DEFAULT_RWF_RATE", 0.00079),
		DefaultCurrency:   models.Currency(getEnv("DEFAULT_CURRENCY", string(models.CurrencyUSD))),

		ForexBaseURL:        getEnv("FOREX_BASE_URL", ""),
		ForexRefreshOnStart: p.bool("FOREX_REFRESH_ON_START", false),
		ForexCacheTTL:       p.duration("FOREX_CACHE_TTL", time.Hour),

		SearchPatternTimeout: p.duration("SEARCH_PATTERN_TIMEOUT", 100*time.Millisecond),
		PatternCacheSize:     p.int("PATTERN_CACHE_SIZE", 128),
		PatternCacheTTL:      p.duration("PATTERN_CACHE_TTL", 10*time.Minute),
	}

	if err := multierror.Append(p.errs, config.Validate()).ErrorOrNil(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	switch c.StorageDriver {
	case StorageMemory:
	case StorageFile:
		if c.StoragePath == "" {
			errs = multierror.Append(errs, fmt.Errorf("STORAGE_PATH is required for the file driver"))
		}
	case StorageSQLite, StoragePostgres:
		if err := c.Database().Validate(); err != nil {
			errs = multierror.Append(errs, err)
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.StorageKey == "" {
		errs = multierror.Append(errs, fmt.Errorf("STORAGE_KEY cannot be empty"))
	}
	if s := c.DefaultSettings(); s.ExpenseCap <= 0 || s.EURRate <= 0 || s.RWFRate <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("default expense cap and rates must be positive"))
	}
	if !c.DefaultCurrency.Valid() {
		errs = multierror.Append(errs, fmt.Errorf("DEFAULT_CURRENCY must be USD, EUR or RWF, got %q", c.DefaultCurrency))
	}
	if c.PatternCacheSize < 1 {
		errs = multierror.Append(errs, fmt.Errorf("PATTERN_CACHE_SIZE must be at least 1"))
	}
	return errs.ErrorOrNil()
}

// DefaultSettings returns the settings a fresh dashboard starts with.
func (c *Config) DefaultSettings() models.Settings {
	return models.Settings{
		ExpenseCap:      c.DefaultExpenseCap,
		EURRate:         c.DefaultEURRate,
		RWFRate:         c.DefaultRWFRate,
		CurrentCurrency: c.DefaultCurrency,
	}
}

// Database returns the connection settings for SQL storage drivers.
func (c *Config) Database() *database.Config {
	return &database.Config{
		Driver:   c.StorageDriver,
		Path:     c.StoragePath,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

func defaultStoragePath(driver string) string {
	if driver == StorageSQLite {
		return "./data/finance.db"
	}
	return "./data"
}

// parser collects conversion errors while reading typed values.
type parser struct {
	errs *multierror.Error
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return def
	}
	return v
}

func (p *parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = multierror.Append(p.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return v
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

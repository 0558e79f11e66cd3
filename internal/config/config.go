package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/denizbora/signalscan/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	Scan       ScanConfig
	Indicator  IndicatorConfig
	Thresholds map[models.AssetClass]models.ThresholdConfig
	Symbols    map[models.AssetClass][]string
	Alpaca     AlpacaConfig
	Store      StoreConfig
	Sinks      SinkConfig
	Cooldown   CooldownConfig
	API        APIConfig
}

// ScanConfig holds scan pass configuration
type ScanConfig struct {
	Granularity string
	Lookback    int
	Workers     int
	Reference   string // "prev_close" or "session_open"
	TopN        int    // 0 = notify on every actionable signal
	SignalLabel string // strategy label assigned by the classifier
}

// IndicatorConfig holds indicator engine configuration
type IndicatorConfig struct {
	ATRPeriod      int
	ZScoreLookback int
}

// AlpacaConfig holds Alpaca API credentials
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// StoreConfig holds signal store configuration
type StoreConfig struct {
	Driver     string // "sqlite" or "postgres"
	SQLitePath string
	Postgres   PostgresConfig
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SinkConfig holds notification sink configuration
type SinkConfig struct {
	EmailEnabled   bool
	EmailRecipient string
	GmailToken     string

	XEnabled        bool
	XToken          string
	XPostsPerWindow int
	XWindow         time.Duration
}

// CooldownConfig holds notification cooldown configuration
type CooldownConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// APIConfig holds the signal history API configuration
type APIConfig struct {
	Port int
}

// Load loads configuration from environment variables. A .env file in
// the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Scan: ScanConfig{
			Granularity: getEnv("SCAN_GRANULARITY", "5Min"),
			Lookback:    getEnvAsInt("SCAN_LOOKBACK", 80),
			Workers:     getEnvAsInt("SCAN_WORKERS", 4),
			Reference:   getEnv("SCAN_REFERENCE", "prev_close"),
			TopN:        getEnvAsInt("SCAN_TOP_N", 1),
			SignalLabel: getEnv("SCAN_SIGNAL_LABEL", "Breakout"),
		},

		Indicator: IndicatorConfig{
			ATRPeriod:      getEnvAsInt("ATR_PERIOD", 14),
			ZScoreLookback: getEnvAsInt("ZSCORE_LOOKBACK", 60),
		},

		Thresholds: map[models.AssetClass]models.ThresholdConfig{
			models.AssetStock: {
				TRATRMin:     getEnvAsFloat("STOCK_TR_ATR_MIN", 2.0),
				ZScoreMin:    getEnvAsFloat("STOCK_Z_SCORE_MIN", 2.0),
				ChangePctMin: getEnvAsFloat("STOCK_CHANGE_PCT_MIN", 2.0),
			},
			models.AssetCrypto: {
				TRATRMin:     getEnvAsFloat("CRYPTO_TR_ATR_MIN", 2.0),
				ZScoreMin:    getEnvAsFloat("CRYPTO_Z_SCORE_MIN", 2.0),
				ChangePctMin: getEnvAsFloat("CRYPTO_CHANGE_PCT_MIN", 2.0),
			},
		},

		Symbols: map[models.AssetClass][]string{
			models.AssetStock:  getEnvAsStringSlice("STOCK_SYMBOLS", []string{"SPY", "QQQ", "AAPL", "MSFT", "NVDA", "TSLA", "AMD"}),
			models.AssetCrypto: getEnvAsStringSlice("CRYPTO_SYMBOLS", []string{"BTC/USD", "ETH/USD"}),
		},

		Alpaca: AlpacaConfig{
			APIKey:    getEnv("ALPACA_API_KEY", ""),
			APISecret: getEnv("ALPACA_API_SECRET", ""),
			BaseURL:   getEnv("ALPACA_DATA_BASE_URL", ""),
		},

		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "data/signals.db"),
			Postgres: PostgresConfig{
				Host:            getEnv("DB_HOST", "localhost"),
				Port:            getEnvAsInt("DB_PORT", 5432),
				User:            getEnv("DB_USER", "signalscan"),
				Password:        getEnv("DB_PASSWORD", ""),
				Database:        getEnv("DB_NAME", "signalscan"),
				SSLMode:         getEnv("DB_SSLMODE", "disable"),
				MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
				MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			},
		},

		Sinks: SinkConfig{
			EmailEnabled:   getEnvAsBool("EMAIL_ENABLED", false),
			EmailRecipient: getEnv("EMAIL_RECIPIENT", ""),
			GmailToken:     getEnv("GMAIL_ACCESS_TOKEN", ""),

			XEnabled:        getEnvAsBool("X_ENABLED", false),
			XToken:          getEnv("X_ACCESS_TOKEN", ""),
			XPostsPerWindow: getEnvAsInt("X_POSTS_PER_WINDOW", 1),
			XWindow:         getEnvAsDuration("X_WINDOW", 30*time.Minute),
		},

		Cooldown: CooldownConfig{
			Backend:       getEnv("COOLDOWN_BACKEND", "memory"),
			TTL:           getEnvAsDuration("COOLDOWN_TTL", 30*time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},

		API: APIConfig{
			Port: getEnvAsInt("API_PORT", 8080),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scan.Lookback < 2 {
		return fmt.Errorf("SCAN_LOOKBACK must be at least 2, got %d", c.Scan.Lookback)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.Reference != "prev_close" && c.Scan.Reference != "session_open" {
		return fmt.Errorf("SCAN_REFERENCE must be prev_close or session_open, got %q", c.Scan.Reference)
	}
	if c.Scan.SignalLabel == "" {
		return fmt.Errorf("SCAN_SIGNAL_LABEL cannot be empty")
	}
	if c.Indicator.ATRPeriod < 1 {
		return fmt.Errorf("ATR_PERIOD must be at least 1, got %d", c.Indicator.ATRPeriod)
	}
	if c.Indicator.ZScoreLookback < 2 {
		return fmt.Errorf("ZSCORE_LOOKBACK must be at least 2, got %d", c.Indicator.ZScoreLookback)
	}
	for class, thresholds := range c.Thresholds {
		if err := thresholds.Validate(); err != nil {
			return fmt.Errorf("thresholds for %s: %w", class, err)
		}
	}
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		return fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Cooldown.Backend != "memory" && c.Cooldown.Backend != "redis" {
		return fmt.Errorf("COOLDOWN_BACKEND must be memory or redis, got %q", c.Cooldown.Backend)
	}
	if c.Sinks.EmailEnabled && (c.Sinks.EmailRecipient == "" || c.Sinks.GmailToken == "") {
		return fmt.Errorf("EMAIL_RECIPIENT and GMAIL_ACCESS_TOKEN are required when EMAIL_ENABLED is true")
	}
	if c.Sinks.XEnabled && c.Sinks.XToken == "" {
		return fmt.Errorf("X_ACCESS_TOKEN is required when X_ENABLED is true")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"cryptoPOC/internal/adapters/logger" // Import the logger package for LogLevel
	"cryptoPOC/internal/ports"
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool
	BaseURL   string // Overrides the production/testnet endpoint (e.g., a local mirror)

	// Connection Settings
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration

	// Fetch / Analysis Parameters
	Symbol   string // Default symbol when --symbol is not given
	Interval string // Default interval when --interval is not given
	PageSize int    // Klines per request (max 1000)
	BinCount int    // Volume profile resolution

	// Database (empty disables report history)
	DBPath string

	// Logging
	LogLevel  logger.LogLevel
	LogFormat logger.Format
}

// fileConfig mirrors the optional YAML configuration file.
type fileConfig struct {
	Binance struct {
		APIKey                string `yaml:"api_key"`
		SecretKey             string `yaml:"secret_key"`
		Testnet               bool   `yaml:"testnet"`
		BaseURL               string `yaml:"base_url"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
		MaxRetries            *int   `yaml:"max_retries"`
		RetryBaseDelayMs      int    `yaml:"retry_base_delay_ms"`
	} `yaml:"binance"`
	Fetch struct {
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
		PageSize int    `yaml:"page_size"`
	} `yaml:"fetch"`
	POC struct {
		Bins int `yaml:"bins"`
	} `yaml:"poc"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaults() *Config {
	return &Config{
		RequestTimeout: 30 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 500 * time.Millisecond,
		Symbol:         "BTCUSDT",
		Interval:       "1h",
		PageSize:       ports.MaxPageSize,
		BinCount:       500,
		LogLevel:       logger.LevelInfo,
		LogFormat:      logger.FormatConsole,
	}
}

// LoadConfig loads configuration from the .env file, the optional YAML file named by
// POC_CONFIG_FILE and environment variables, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()
	return Load(os.Getenv("POC_CONFIG_FILE"))
}

// Load builds the configuration from an optional YAML file plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()
	var errs []string // Collect validation errors

	logLevelStr := cfg.LogLevel.String()
	logFormatStr := string(cfg.LogFormat)

	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		cfg.apply(fc)
		if fc.Log.Level != "" {
			logLevelStr = fc.Log.Level
		}
		if fc.Log.Format != "" {
			logFormatStr = fc.Log.Format
		}
	}

	var err error

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", cfg.APIKey)
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", cfg.SecretKey)
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", cfg.IsTestnet)
	cfg.BaseURL = getEnv("BINANCE_BASE_URL", cfg.BaseURL)

	// Connection Settings
	timeoutSeconds, err := getEnvAsIntRequired("REQUEST_TIMEOUT_SECONDS", int(cfg.RequestTimeout/time.Second))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REQUEST_TIMEOUT_SECONDS: %v", err))
	} else if timeoutSeconds <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT_SECONDS must be positive")
	}
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.MaxRetries, err = getEnvAsIntRequired("MAX_RETRIES", cfg.MaxRetries)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_RETRIES: %v", err))
	} else if cfg.MaxRetries < 0 {
		errs = append(errs, "MAX_RETRIES cannot be negative")
	}

	retryDelayMs, err := getEnvAsIntRequired("RETRY_BASE_DELAY_MS", int(cfg.RetryBaseDelay/time.Millisecond))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RETRY_BASE_DELAY_MS: %v", err))
	} else if retryDelayMs <= 0 {
		errs = append(errs, "RETRY_BASE_DELAY_MS must be positive")
	}
	cfg.RetryBaseDelay = time.Duration(retryDelayMs) * time.Millisecond

	// Fetch / Analysis Parameters
	cfg.Symbol = getEnv("SYMBOL", cfg.Symbol)
	cfg.Interval = getEnv("INTERVAL", cfg.Interval)

	cfg.PageSize, err = getEnvAsIntRequired("PAGE_SIZE", cfg.PageSize)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PAGE_SIZE: %v", err))
	} else if cfg.PageSize <= 0 || cfg.PageSize > ports.MaxPageSize {
		errs = append(errs, fmt.Sprintf("PAGE_SIZE must be between 1 and %d", ports.MaxPageSize))
	}

	cfg.BinCount, err = getEnvAsIntRequired("POC_BINS", cfg.BinCount)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid POC_BINS: %v", err))
	} else if cfg.BinCount <= 0 {
		errs = append(errs, "POC_BINS must be positive")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)

	// Logging
	cfg.LogLevel, err = logger.ParseLevel(getEnv("LOG_LEVEL", logLevelStr))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid LOG_LEVEL: %v", err))
	}
	switch f := logger.Format(strings.ToLower(getEnv("LOG_FORMAT", logFormatStr))); f {
	case logger.FormatConsole, logger.FormatJSON:
		cfg.LogFormat = f
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be %q or %q", logger.FormatConsole, logger.FormatJSON))
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: configuration validation failed: %s", ports.ErrConfigurationError, strings.Join(errs, "; "))
	}

	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config file: %w", ports.ErrConfigurationError, err)
	}
	fc := &fileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("%w: parse config file %s: %w", ports.ErrConfigurationError, path, err)
	}
	return fc, nil
}

// apply copies every value set in the file over the defaults.
func (c *Config) apply(fc *fileConfig) {
	if fc.Binance.APIKey != "" {
		c.APIKey = fc.Binance.APIKey
	}
	if fc.Binance.SecretKey != "" {
		c.SecretKey = fc.Binance.SecretKey
	}
	if fc.Binance.Testnet {
		c.IsTestnet = true
	}
	if fc.Binance.BaseURL != "" {
		c.BaseURL = fc.Binance.BaseURL
	}
	if fc.Binance.RequestTimeoutSeconds != 0 {
		c.RequestTimeout = time.Duration(fc.Binance.RequestTimeoutSeconds) * time.Second
	}
	if fc.Binance.MaxRetries != nil {
		c.MaxRetries = *fc.Binance.MaxRetries
	}
	if fc.Binance.RetryBaseDelayMs != 0 {
		c.RetryBaseDelay = time.Duration(fc.Binance.RetryBaseDelayMs) * time.Millisecond
	}
	if fc.Fetch.Symbol != "" {
		c.Symbol = fc.Fetch.Symbol
	}
	if fc.Fetch.Interval != "" {
		c.Interval = fc.Fetch.Interval
	}
	if fc.Fetch.PageSize != 0 {
		c.PageSize = fc.Fetch.PageSize
	}
	if fc.POC.Bins != 0 {
		c.BinCount = fc.POC.Bins
	}
	if fc.Database.Path != "" {
		c.DBPath = fc.Database.Path
	}
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
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

package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Storage       StorageConfig       `mapstructure:"storage"`
	DevServer     DevServerConfig     `mapstructure:"dev_server"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// APIConfig controls the outbound client: where the backend lives and how the
// wrapper throttles and retries requests against it.
type APIConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryBaseDelay       time.Duration `mapstructure:"retry_base_delay"`
	SlowCallThreshold    time.Duration `mapstructure:"slow_call_threshold"`
}

type StorageConfig struct {
	// Path of the sqlite database holding the persisted session. Empty means
	// in-memory only (nothing survives the process).
	Path string `mapstructure:"path"`
}

type DevServerConfig struct {
	Port       int           `mapstructure:"port"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BCryptCost int           `mapstructure:"bcrypt_cost"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config purely from environment variables, used
// when no config file is present.
func LoadConfigFromEnv() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:              getEnv("HRMS_API_BASE_URL", "http://localhost:8080/api"),
			Timeout:              getEnvAsDuration("HRMS_API_TIMEOUT", 30*time.Second),
			MaxRequestsPerSecond: getEnvAsInt("HRMS_API_MAX_RPS", 10),
			MaxRetries:           getEnvAsInt("HRMS_API_MAX_RETRIES", 3),
			RetryBaseDelay:       getEnvAsDuration("HRMS_API_RETRY_BASE_DELAY", time.Second),
			SlowCallThreshold:    getEnvAsDuration("HRMS_API_SLOW_THRESHOLD", 5*time.Second),
		},
		Storage: StorageConfig{
			Path: getEnv("HRMS_STORAGE_PATH", defaultStoragePath()),
		},
		DevServer: DevServerConfig{
			Port:       getEnvAsInt("HRMS_DEVSERVER_PORT", 8080),
			JWTSecret:  getEnv("HRMS_DEVSERVER_JWT_SECRET", "hrms-dev-only-secret"),
			TokenTTL:   getEnvAsDuration("HRMS_DEVSERVER_TOKEN_TTL", 8*time.Hour),
			BCryptCost: getEnvAsInt("HRMS_DEVSERVER_BCRYPT_COST", 10),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("HRMS_LOG_LEVEL", "info"),
				Format: getEnv("HRMS_LOG_FORMAT", "text"),
			},
		},
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hrms-portal.db"
	}
	return home + string(os.PathSeparator) + ".hrms-portal.db"
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("api config: %v", err))
	}

	if err := c.DevServer.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("dev server config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("base_url is not a valid URL: %w", err)
	}
	if c.MaxRequestsPerSecond <= 0 {
		c.MaxRequestsPerSecond = 10
	}
	if c.MaxRetries < 0 {
		return errors.New("max_retries cannot be negative")
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.SlowCallThreshold <= 0 {
		c.SlowCallThreshold = 5 * time.Second
	}
	return nil
}

func (c *DevServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 8 * time.Hour
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		c.BCryptCost = 10
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format: %s", c.Format)
	}
	return nil
}

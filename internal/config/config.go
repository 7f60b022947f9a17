package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Transform TransformConfig
	Media     MediaConfig
	Batch     BatchConfig
	Publish   PublishConfig
	Redis     RedisConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	// StrictMode answers invalid payloads with 422 instead of 200.
	StrictMode bool
}

type TransformConfig struct {
	DefaultCurrency     string
	SupportedCurrencies []string
	SDKVersion          string
}

type MediaConfig struct {
	ProbeEnabled bool
	ProbeTimeout time.Duration
}

type BatchConfig struct {
	Concurrency int
	MaxItems    int
}

type PublishConfig struct {
	Enabled bool
	Stream  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level      string
	Format     string
	Mapping    bool
	Validation bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8085),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			StrictMode:      getEnvBool("STRICT_MODE", false),
		},
		Transform: TransformConfig{
			DefaultCurrency:     strings.ToUpper(getEnv("DEFAULT_CURRENCY", "INR")),
			SupportedCurrencies: getEnvSlice("SUPPORTED_CURRENCIES", []string{"INR", "USD", "EUR", "GBP"}),
			SDKVersion:          getEnv("SDK_VERSION", "2.0.4"),
		},
		Media: MediaConfig{
			ProbeEnabled: getEnvBool("MEDIA_PROBE_ENABLED", false),
			ProbeTimeout: getEnvDuration("MEDIA_PROBE_TIMEOUT", 800*time.Millisecond),
		},
		Batch: BatchConfig{
			Concurrency: getEnvInt("BATCH_CONCURRENCY", 4),
			MaxItems:    getEnvInt("BATCH_MAX_ITEMS", 100),
		},
		Publish: PublishConfig{
			Enabled: getEnvBool("PUBLISH_ENABLED", false),
			Stream:  getEnv("PUBLISH_STREAM", "stream:catalog_ingest"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Mapping:    getEnvBool("LOG_MAPPING", true),
			Validation: getEnvBool("LOG_VALIDATION", true),
		},
	}

	for i, c := range cfg.Transform.SupportedCurrencies {
		cfg.Transform.SupportedCurrencies[i] = strings.ToUpper(c)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if len(c.Transform.SupportedCurrencies) == 0 {
		return fmt.Errorf("at least one supported currency is required")
	}

	if !slices.Contains(c.Transform.SupportedCurrencies, c.Transform.DefaultCurrency) {
		return fmt.Errorf("default currency %s is not in SUPPORTED_CURRENCIES", c.Transform.DefaultCurrency)
	}

	if c.Media.ProbeTimeout <= 0 || c.Media.ProbeTimeout >= time.Second {
		return fmt.Errorf("MEDIA_PROBE_TIMEOUT must be between 0 and 1s, got %s", c.Media.ProbeTimeout)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}

	if c.Batch.MaxItems < 1 {
		return fmt.Errorf("BATCH_MAX_ITEMS must be at least 1")
	}

	if c.Publish.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when publishing is enabled")
	}

	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

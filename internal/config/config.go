package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Analyzer AnalyzerConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig controls the in-memory ticket store.
type StoreConfig struct {
	SeedSampleData bool
}

// AnalyzerConfig tunes description analysis.
type AnalyzerConfig struct {
	IdentifierPattern string
}

// RedisConfig holds connection values for the optional event publisher.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	EventChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-whisperer"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			SeedSampleData: getEnvAsBool("STORE_SEED_SAMPLE_DATA", false),
		},
		Analyzer: AnalyzerConfig{
			IdentifierPattern: os.Getenv("ANALYZER_IDENTIFIER_PATTERN"),
		},
		Redis: RedisConfig{
			Addr:         os.Getenv("REDIS_ADDR"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           redisDB,
			EventChannel: getEnv("REDIS_EVENT_CHANNEL", "ticket-events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

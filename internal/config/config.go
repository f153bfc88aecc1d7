package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Flusher FlusherConfig
	Warmup  WarmupConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string

	// CountSettleDelay holds GET /contagem-pessoas back so in-flight flush
	// cycles land before counting.
	CountSettleDelay time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type FlusherConfig struct {
	// Interval between flush cycles.
	Interval time.Duration
	// FlushTimeout bounds one drain-dedup-commit cycle; on expiry the
	// batch is abandoned.
	FlushTimeout time.Duration
}

type WarmupConfig struct {
	Enabled bool
	// TargetURL is the public POST endpoint, normally behind the front
	// proxy so warmup traffic exercises the full path.
	TargetURL    string
	StartupDelay time.Duration
	Requests     int
	Concurrency  int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:             getEnv("APP_NAME", "People API"),
			Environment:      getEnv("APP_ENV", "development"),
			Port:             getEnv("APP_PORT", "8080"),
			Version:          getEnv("APP_VERSION", "1.0.0"),
			CountSettleDelay: getEnvDuration("COUNT_SETTLE_DELAY", 3*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Flusher: FlusherConfig{
			Interval:     getEnvDuration("FLUSH_INTERVAL", 2*time.Second),
			FlushTimeout: getEnvDuration("FLUSH_TIMEOUT", 10*time.Second),
		},
		Warmup: WarmupConfig{
			Enabled:      getEnvBool("WARMUP_ENABLED", false),
			TargetURL:    getEnv("WARMUP_TARGET_URL", "http://localhost:9999/pessoas"),
			StartupDelay: getEnvDuration("WARMUP_STARTUP_DELAY", 3*time.Second),
			Requests:     getEnvInt("WARMUP_REQUESTS", 2555),
			Concurrency:  getEnvInt("WARMUP_CONCURRENCY", 64),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if c.Flusher.Interval <= 0 {
		return fmt.Errorf("FLUSH_INTERVAL must be positive")
	}
	if c.Flusher.FlushTimeout <= 0 {
		return fmt.Errorf("FLUSH_TIMEOUT must be positive")
	}
	if c.Warmup.Enabled && c.Warmup.Concurrency <= 0 {
		return fmt.Errorf("WARMUP_CONCURRENCY must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvBool(key string, defaultValue bool) bool {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
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

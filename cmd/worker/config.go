package main

import (
	"log"
	"os"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr       string
	CleanupSchedule string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:       getEnvVariable("REDIS_HOST", "localhost:6379"),
		CleanupSchedule: getEnvVariable("WARMUP_CLEANUP_SCHEDULE", "@every 2m"),
	}

	log.Printf("[Config] Redis: %s, Cleanup schedule: %s",
		cfg.RedisAddr, cfg.CleanupSchedule)

	return cfg
}

func getEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

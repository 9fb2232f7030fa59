// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/jaskrrish/go-qsim/internal/models/sim"
	"github.com/jaskrrish/go-qsim/internal/qsim/quantum"
)

// Config holds application configuration
type Config struct {
	Port            int
	LogLevel        string
	LogPretty       bool
	Seed            string // empty seeds from the clock
	DefaultShots    int
	MaxShots        int
	MaxQubits       int
	RunTTLMinutes   int
	CleanupSchedule string // cron expression for the expired-run sweep
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnvAsBool("LOG_PRETTY", false),
		Seed:            os.Getenv("QSIM_SEED"),
		DefaultShots:    getEnvAsInt("QSIM_DEFAULT_SHOTS", 1024),
		MaxShots:        getEnvAsInt("QSIM_MAX_SHOTS", 100000),
		MaxQubits:       getEnvAsInt("QSIM_MAX_QUBITS", 16),
		RunTTLMinutes:   getEnvAsInt("QSIM_RUN_TTL_MINUTES", 60),
		CleanupSchedule: getEnv("QSIM_CLEANUP_SCHEDULE", "@every 5m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid settings
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DefaultShots < 1 || c.MaxShots < 1 {
		return fmt.Errorf("shot settings must be positive")
	}
	if c.DefaultShots > c.MaxShots {
		return fmt.Errorf("default shots %d exceed max shots %d", c.DefaultShots, c.MaxShots)
	}
	if c.MaxQubits < 2 || c.MaxQubits > quantum.MaxQubits {
		return fmt.Errorf("max qubits must be between 2 and %d, got %d", quantum.MaxQubits, c.MaxQubits)
	}
	if c.RunTTLMinutes < 1 {
		return fmt.Errorf("run TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.CleanupSchedule); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", c.CleanupSchedule, err)
	}
	return nil
}

// Limits returns the request bounds for the run manager
func (c *Config) Limits() sim.Limits {
	return sim.Limits{
		DefaultShots: c.DefaultShots,
		MaxShots:     c.MaxShots,
		MaxQubits:    c.MaxQubits,
	}
}

// RunTTL returns how long run records are kept
func (c *Config) RunTTL() time.Duration {
	return time.Duration(c.RunTTLMinutes) * time.Minute
}

// SeedValue resolves the configured seed to the one used for the process-wide source
func (c *Config) SeedValue() int64 {
	return quantum.ParseSeed(c.Seed)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Package config provides application configuration management.
// It loads an optional .env file, then environment variables with defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/keyring"
	"github.com/julianstephens/timewise/internal/utils"
)

// Config holds all application configuration.
type Config struct {
	DBPath      string
	LegacyFile  string
	Timezone    string
	LoadTimeout time.Duration
	Debug       bool
	Gemini      GeminiConfig
}

// GeminiConfig holds the AI coaching configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads the given .env files, or ./.env when none are named, and
// builds the configuration from the environment. Missing .env files are
// not an error.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	dbPath := ExpandHome(getEnv(constants.EnvDBPath, constants.DefaultConfigPath))
	return &Config{
		DBPath:      dbPath,
		LegacyFile:  ExpandHome(getEnv(constants.EnvLegacyFile, DefaultLegacyFile(dbPath))),
		Timezone:    getEnv(constants.EnvTimezone, constants.DefaultTimezone),
		LoadTimeout: getEnvAsDuration(constants.EnvLoadTimeout, constants.DefaultLoadTimeout),
		Debug:       getEnvAsBool(constants.EnvDebug, false),
		Gemini: GeminiConfig{
			APIKey: getEnv(constants.EnvGeminiKey, ""),
			Model:  getEnv(constants.EnvGeminiModel, constants.DefaultGeminiModel),
		},
	}
}

// DefaultLegacyFile places the legacy export next to the database.
func DefaultLegacyFile(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), constants.LegacyFileName)
}

// ConfigDir is the directory holding the database, logs and backups.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.DBPath)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("database path cannot be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("load timeout must be positive, got %s", c.LoadTimeout)
	}
	return nil
}

// ResolveAPIKey returns the Gemini API key from the environment, falling
// back to the OS keyring. An empty result means coaching is not configured.
func (c *Config) ResolveAPIKey() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	key, err := keyring.GetAPIKey()
	if err != nil {
		return ""
	}
	return key
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

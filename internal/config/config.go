// Package config handles loading configuration from .env files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration loaded from .env file.
type Config struct {
	// APIKey is the Lambda Cloud API key. Required.
	APIKey string

	// DefaultSSHKey is the SSH key name used when --ssh is not given.
	DefaultSSHKey string

	// PollInterval is the spacing between capacity checks during find.
	PollInterval time.Duration

	// ActivationTimeout bounds the post-launch activation wait.
	ActivationTimeout time.Duration

	// WebhookURL, if set, receives a notification after an acquisition.
	WebhookURL string
}

// DefaultEnvPath is the default path for the .env file.
const DefaultEnvPath = ".env"

// Defaults applied when the environment does not override them.
const (
	DefaultPollIntervalSeconds      = 10
	DefaultActivationTimeoutSeconds = 600
)

// ErrNoAPIKey indicates the LAMBDA_API_KEY variable was not set.
var ErrNoAPIKey = errors.New("LAMBDA_API_KEY must be set")

// Load loads configuration from the specified .env file path, falling back
// to plain environment variables when the file does not exist. If path is
// empty, DefaultEnvPath is used. Returns the config and any warnings
// (e.g. permission issues) as a slice of strings.
func Load(path string) (*Config, []string, error) {
	if path == "" {
		path = DefaultEnvPath
	}

	var warnings []string

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		// Check file permissions (Unix only)
		mode := info.Mode().Perm()
		if mode != 0o600 {
			warnings = append(warnings, fmt.Sprintf(
				"config file %s has permissions %04o, should be 0600 for security",
				absPath, mode,
			))
		}
		if err := godotenv.Load(absPath); err != nil {
			return nil, nil, fmt.Errorf("failed to load config file: %w", err)
		}
	case os.IsNotExist(err):
		// No .env file; the environment alone may carry the key.
	default:
		return nil, nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg := &Config{}
	cfg.loadFromEnv()

	return cfg, warnings, nil
}

// LoadFromEnv loads configuration directly from environment variables
// without reading a .env file.
func LoadFromEnv() *Config {
	cfg := &Config{}
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv populates the Config from environment variables.
func (c *Config) loadFromEnv() {
	c.APIKey = os.Getenv("LAMBDA_API_KEY")
	c.DefaultSSHKey = os.Getenv("DEFAULT_SSH_KEY")
	c.WebhookURL = os.Getenv("WEBHOOK_URL")

	c.PollInterval = time.Duration(getEnvInt("FIND_POLL_INTERVAL_SECONDS", DefaultPollIntervalSeconds)) * time.Second
	c.ActivationTimeout = time.Duration(getEnvInt("ACTIVATION_TIMEOUT_SECONDS", DefaultActivationTimeoutSeconds)) * time.Second
}

// Validate checks if the configuration is valid for operation.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("FIND_POLL_INTERVAL_SECONDS must be at least 1, got %s", c.PollInterval)
	}
	if c.ActivationTimeout < time.Second {
		return fmt.Errorf("ACTIVATION_TIMEOUT_SECONDS must be at least 1, got %s", c.ActivationTimeout)
	}
	return nil
}

// getEnvInt returns an environment variable as an int, or the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

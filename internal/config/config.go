// Package config handles the XDG configuration directory and environment settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// StateFile is the SQLite file holding the session and login attempt state.
	StateFile = "state.db"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"

	// DefaultAPIURL is the backend used when TODO_API_URL is unset.
	DefaultAPIURL = "http://127.0.0.1:3072"
)

// Environment variables.
const (
	EnvAPIURL           = "TODO_API_URL"
	EnvLockoutThreshold = "TODO_LOCKOUT_THRESHOLD"
	EnvLockoutDuration  = "TODO_LOCKOUT_DURATION"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the backend base URL.
	APIURL string

	// LockoutThreshold is the number of failed logins that triggers a lockout.
	LockoutThreshold int

	// LockoutDuration is how long a lockout lasts.
	LockoutDuration time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
//
// Settings come from the environment, falling back to a .env file in the
// config directory and then one in the working directory. Variables already
// set in the environment are never overridden.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	// Missing files are fine; each is loaded on its own so one absent file
	// does not stop the other.
	_ = godotenv.Load(filepath.Join(dir, EnvFile))
	_ = godotenv.Load(EnvFile)

	cfg := &Config{
		Dir:              dir,
		APIURL:           strings.TrimRight(getEnv(EnvAPIURL, DefaultAPIURL), "/"),
		LockoutThreshold: getEnvAsInt(EnvLockoutThreshold, 3),
		LockoutDuration:  getEnvAsDuration(EnvLockoutDuration, 5*time.Minute),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvAPIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an http or https URL", EnvAPIURL, c.APIURL)
	}
	if c.LockoutThreshold < 1 {
		return fmt.Errorf("%s must be at least 1 (got %d)", EnvLockoutThreshold, c.LockoutThreshold)
	}
	if c.LockoutDuration <= 0 {
		return fmt.Errorf("%s must be positive (got %s)", EnvLockoutDuration, c.LockoutDuration)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StatePath returns the path to the state database.
func (c *Config) StatePath() string {
	return filepath.Join(c.Dir, StateFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

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

// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.testing-agent/config.yaml)
//  3. Default values
//
// Validation is fail-fast: Load returns an error for out-of-range values
// instead of letting a bad setting surface mid-session.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidMavenCommand indicates the Maven executable name is empty.
	ErrInvalidMavenCommand = errors.New("invalid maven command")

	// ErrInvalidMavenTimeout indicates the Maven timeout is out of range.
	ErrInvalidMavenTimeout = errors.New("invalid maven timeout")

	// ErrInvalidGitLogLimit indicates the git log limit is out of range.
	ErrInvalidGitLogLimit = errors.New("invalid git log limit")
)

const (
	// DefaultMavenTimeoutSeconds bounds a single Maven test run.
	DefaultMavenTimeoutSeconds = 300

	// MaxMavenTimeoutSeconds is the absolute maximum to keep a stuck
	// build from holding the agent session open.
	MaxMavenTimeoutSeconds = 3600

	// DefaultGitLogLimit is the commit count git_log reports by default.
	DefaultGitLogLimit = 10

	// MaxGitLogLimit caps the commit count a client can request.
	MaxGitLogLimit = 1000
)

// Config stores application configuration.
type Config struct {
	// Logging configuration
	LogLevel  string `mapstructure:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" json:"log_format"` // "text" or "json"

	// Directories tools may read from, in addition to the working
	// directory. Relative entries are resolved against the working
	// directory at startup.
	AllowedDirs []string `mapstructure:"allowed_dirs" json:"allowed_dirs"`

	// Maven configuration
	MavenCommand        string `mapstructure:"maven_command" json:"maven_command"`
	MavenTimeoutSeconds int    `mapstructure:"maven_timeout_seconds" json:"maven_timeout_seconds"`

	// Git configuration
	GitLogLimit int `mapstructure:"git_log_limit" json:"git_log_limit"`
}

// Load reads configuration from defaults, the config file, and the
// environment, then validates it.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".testing-agent")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("allowed_dirs", []string{})
	viper.SetDefault("maven_command", "mvn")
	viper.SetDefault("maven_timeout_seconds", DefaultMavenTimeoutSeconds)
	viper.SetDefault("git_log_limit", DefaultGitLogLimit)
}

// bindEnvVariables binds configuration keys to environment variables.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("binding %s to %s: %v", key, envVar, err))
		}
	}

	mustBind("log_level", "TESTING_AGENT_LOG_LEVEL")
	mustBind("log_format", "TESTING_AGENT_LOG_FORMAT")
	mustBind("allowed_dirs", "TESTING_AGENT_ALLOWED_DIRS")
	mustBind("maven_command", "TESTING_AGENT_MAVEN_COMMAND")
	mustBind("maven_timeout_seconds", "TESTING_AGENT_MAVEN_TIMEOUT_SECONDS")
	mustBind("git_log_limit", "TESTING_AGENT_GIT_LOG_LIMIT")
}

// Validate checks all configuration values, failing fast on the first
// problem.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q (want debug, info, warn, or error)", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.MavenCommand == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidMavenCommand)
	}
	if c.MavenTimeoutSeconds <= 0 || c.MavenTimeoutSeconds > MaxMavenTimeoutSeconds {
		return fmt.Errorf("%w: %d (want 1..%d seconds)",
			ErrInvalidMavenTimeout, c.MavenTimeoutSeconds, MaxMavenTimeoutSeconds)
	}
	if c.GitLogLimit <= 0 || c.GitLogLimit > MaxGitLogLimit {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidGitLogLimit, c.GitLogLimit, MaxGitLogLimit)
	}

	return nil
}

// MavenTimeout returns the configured Maven timeout as a duration.
func (c *Config) MavenTimeout() time.Duration {
	return time.Duration(c.MavenTimeoutSeconds) * time.Second
}

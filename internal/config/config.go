// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides (JOBHUNTER_BASE_URL, ...).
const EnvPrefix = "JOBHUNTER"

// Default values.
const (
	DefaultBaseURL       = "https://quyendz.pythonanywhere.com/"
	DefaultStorageURL    = "file://~/.jobhunter/storage.json"
	DefaultTimeout       = 15 * time.Second
	DefaultDebounce      = 500 * time.Millisecond
	DefaultRole          = "applicant"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultWatchSchedule = "@every 10m"
)

// keys lists every configuration key; each can be set in the file or the environment.
var keys = []string{
	"base_url", "client_id", "client_secret", "storage_url", "timeout", "debounce",
	"role", "log_level", "log_format", "verbose", "watch_schedule",
}

// Config represents the CLI configuration that can be loaded from a JSON file and the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// API
	BaseURL      string `json:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	ClientID     string `json:"client_id,omitempty" mapstructure:"client_id"`         // OAuth2 application id
	ClientSecret string `json:"client_secret,omitempty" mapstructure:"client_secret"` // OAuth2 application secret

	// Device storage for the comparison list and the login token
	StorageURL string `json:"storage_url,omitempty" mapstructure:"storage_url"`

	// Timing
	Timeout  time.Duration `json:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	Debounce time.Duration `json:"debounce,omitempty" mapstructure:"debounce" validate:"gte=0"`

	// Behavior
	Role          string `json:"role,omitempty" mapstructure:"role" validate:"omitempty,oneof=applicant recruiter"`
	LogLevel      string `json:"log_level,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	LogFormat     string `json:"log_format,omitempty" mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	Verbose       bool   `json:"verbose,omitempty" mapstructure:"verbose"` // Print debug logs
	WatchSchedule string `json:"watch_schedule,omitempty" mapstructure:"watch_schedule"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		StorageURL:    DefaultStorageURL,
		Timeout:       DefaultTimeout,
		Debounce:      DefaultDebounce,
		Role:          DefaultRole,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		WatchSchedule: DefaultWatchSchedule,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return decode(v)
}

// LoadEnv reads the JOBHUNTER_* environment variables. Unset variables leave fields empty.
func LoadEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return decode(v)
}

// Load resolves the effective configuration: environment over file over defaults.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	fromFile := &Config{}
	if path != "" {
		var err error
		fromFile, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	fromEnv, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	merged := fromFile.MergeWithDefaults(Defaults())
	merged = fromEnv.MergeWithDefaults(merged)
	merged.Verbose = fromEnv.Verbose || fromFile.Verbose
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("config error: '%s' must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("config error: '%s' must be a valid %s", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("config error: %w", err)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.ClientID == "" {
		result.ClientID = defaults.ClientID
	}
	if result.ClientSecret == "" {
		result.ClientSecret = defaults.ClientSecret
	}
	if result.StorageURL == "" {
		result.StorageURL = defaults.StorageURL
	}
	if result.Role == "" {
		result.Role = defaults.Role
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.WatchSchedule == "" {
		result.WatchSchedule = defaults.WatchSchedule
	}

	// Duration fields: use default if zero
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Debounce == 0 {
		result.Debounce = defaults.Debounce
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

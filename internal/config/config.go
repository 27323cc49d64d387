// Package config loads the CLI configuration from <home>/config.yaml,
// optional .env files and SIAGA_* environment variables, in that order of
// increasing precedence. Command-line flags are applied by the caller.
package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/siagacs/siaga-admin/internal/errors"
	"github.com/siagacs/siaga-admin/internal/log"
)

// Environment variables.
const (
	EnvHome       = "SIAGA_HOME"
	EnvBaseURL    = "SIAGA_API_BASE_URL"
	EnvLogLevel   = "SIAGA_LOG_LEVEL"
	EnvPassphrase = "SIAGA_CREDENTIAL_PASSPHRASE"

	EnvTelemetry         = "SIAGA_TELEMETRY"
	EnvTelemetryEndpoint = "SIAGA_TELEMETRY_ENDPOINT"
	EnvMetricsTextfile   = "SIAGA_METRICS_TEXTFILE"
)

// File names inside the home directory.
const (
	FileName        = "config.yaml"
	CredentialsFile = "credentials.json"
	dirName         = ".siaga-admin"
)

// DefaultBaseURL is the backend used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8686"

// Config is the persisted CLI configuration.
type Config struct {
	API       APIConfig       `yaml:"api" json:"api"`
	Defaults  DefaultsConfig  `yaml:"defaults" json:"defaults"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout is a Go duration string such as "30s".
	Timeout string `yaml:"timeout" json:"timeout"`
}

// DefaultsConfig holds output defaults.
type DefaultsConfig struct {
	Format   string `yaml:"format" json:"format"` // "text", "json", "yaml"
	NoColor  bool   `yaml:"no_color" json:"no_color"`
	PageSize int    `yaml:"page_size" json:"page_size"`
}

// LoggingConfig mirrors log.Config in file form.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// TelemetryConfig controls OpenTelemetry trace export.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Endpoint is the OTLP/HTTP collector as host:port.
	Endpoint   string  `yaml:"endpoint" json:"endpoint"`
	Insecure   bool    `yaml:"insecure" json:"insecure"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// MetricsConfig controls the Prometheus textfile written after each command.
type MetricsConfig struct {
	// Textfile is the .prom file to write; empty disables metrics output.
	Textfile string `yaml:"textfile" json:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "30s",
		},
		Defaults: DefaultsConfig{
			Format:   "text",
			PageSize: 10,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			SampleRate: 1.0,
		},
	}
}

// HomeDir returns SIAGA_HOME or ~/.siaga-admin.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(userHome, dirName), nil
}

// Path returns the config file inside home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// CredentialsPath returns the encrypted token file inside home.
func CredentialsPath(home string) string {
	return filepath.Join(home, CredentialsFile)
}

// LoadDotEnv loads home/.env and ./.env when present. Variables already in
// the environment win.
func LoadDotEnv(home string) error {
	for _, path := range []string{filepath.Join(home, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the config file in home, or the defaults when it does not
// exist, then applies environment overrides and validates the result.
func Load(home string) (*Config, error) {
	cfg, err := ReadFile(Path(home))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigInvalidError(Path(home), err)
	}
	return cfg, nil
}

// ReadFile reads path without applying the environment. Missing keys keep
// their defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config: %s", path), err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigInvalidError(path, err)
	}
	return cfg, nil
}

// Save writes cfg to the config file in home.
func Save(home string, cfg *Config) error {
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create %s", home), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(Path(home), data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write config", err)
	}
	return nil
}

// ApplyEnv overrides values from SIAGA_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.ToLower(os.Getenv(EnvTelemetry)); v != "" {
		c.Telemetry.Enabled = v == "on" || v == "true" || v == "1" || v == "enabled"
	}
	if v := os.Getenv(EnvTelemetryEndpoint); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		c.Metrics.Textfile = v
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	switch c.Defaults.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("defaults.format must be text, json or yaml, got %q", c.Defaults.Format)
	}
	if c.Defaults.PageSize < 1 {
		return fmt.Errorf("defaults.page_size must be positive, got %d", c.Defaults.PageSize)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %v", c.Telemetry.SampleRate)
	}
	if c.Telemetry.Enabled && strings.Contains(c.Telemetry.Endpoint, "://") {
		return fmt.Errorf("telemetry.endpoint must be host:port without a scheme, got %q", c.Telemetry.Endpoint)
	}
	return nil
}

// BaseURL returns the backend URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.API.BaseURL, "/")
}

// Timeout parses api.timeout; an empty value means 30s.
func (c *Config) Timeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("api.timeout must be a positive duration, got %q", c.API.Timeout)
	}
	return d, nil
}

// LogConfig converts the logging section.
func (c *Config) LogConfig() log.Config {
	cfg := log.DefaultConfig()
	if level, err := log.ParseLevel(c.Logging.Level); err == nil {
		cfg.Level = level
	}
	cfg.Format = log.ParseFormat(c.Logging.Format)
	return cfg
}

func boolField(name string, ptr func(*Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s must be true or false", name)
			}
			*ptr(c) = b
			return nil
		},
	}
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

var fields = map[string]field{
	"api.base_url": {
		get: func(c *Config) string { return c.API.BaseURL },
		set: func(c *Config, v string) error { c.API.BaseURL = v; return nil },
	},
	"api.timeout": {
		get: func(c *Config) string { return c.API.Timeout },
		set: func(c *Config, v string) error { c.API.Timeout = v; return nil },
	},
	"defaults.format": {
		get: func(c *Config) string { return c.Defaults.Format },
		set: func(c *Config, v string) error { c.Defaults.Format = v; return nil },
	},
	"defaults.no_color": boolField("defaults.no_color", func(c *Config) *bool { return &c.Defaults.NoColor }),
	"defaults.page_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Defaults.PageSize) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("defaults.page_size must be a number")
			}
			c.Defaults.PageSize = n
			return nil
		},
	},
	"logging.level": {
		get: func(c *Config) string { return c.Logging.Level },
		set: func(c *Config, v string) error { c.Logging.Level = v; return nil },
	},
	"logging.format": {
		get: func(c *Config) string { return c.Logging.Format },
		set: func(c *Config, v string) error { c.Logging.Format = v; return nil },
	},
	"telemetry.enabled":  boolField("telemetry.enabled", func(c *Config) *bool { return &c.Telemetry.Enabled }),
	"telemetry.insecure": boolField("telemetry.insecure", func(c *Config) *bool { return &c.Telemetry.Insecure }),
	"telemetry.endpoint": {
		get: func(c *Config) string { return c.Telemetry.Endpoint },
		set: func(c *Config, v string) error { c.Telemetry.Endpoint = v; return nil },
	},
	"telemetry.sample_rate": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Telemetry.SampleRate, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("telemetry.sample_rate must be a number")
			}
			c.Telemetry.SampleRate = f
			return nil
		},
	},
	"metrics.textfile": {
		get: func(c *Config) string { return c.Metrics.Textfile },
		set: func(c *Config, v string) error { c.Metrics.Textfile = v; return nil },
	},
}

// Keys lists the settable keys in order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func unknownKey(key string) error {
	return errors.New(errors.ErrCodeConfigUnknownKey, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Valid keys: " + strings.Join(Keys(), ", "))
}

// Get returns the value at a dotted key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", unknownKey(key)
	}
	return f.get(c), nil
}

// Set assigns a dotted key and re-validates the whole configuration.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return unknownKey(key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "invalid value", err)
	}
	if err := next.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "invalid value", err)
	}
	*c = next
	return nil
}

// Passphrase returns the key material for the credential file:
// SIAGA_CREDENTIAL_PASSPHRASE when set, otherwise a value bound to this
// machine and home directory.
func Passphrase(home string) string {
	if p := os.Getenv(EnvPassphrase); p != "" {
		return p
	}
	hostname, _ := os.Hostname() // best-effort, an empty name still yields a usable key
	return "siaga-admin:" + hostname + ":" + home
}

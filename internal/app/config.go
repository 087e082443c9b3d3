package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vk/nsreg/internal/output"
	"gopkg.in/yaml.v3"
)

// Defaults applied by DefaultConfig.
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultRateBurst       = 20
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModulePaths []string `yaml:"modules"` // .hcl files or directories
	Expressions []string `yaml:"expressions"`

	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	OutputFormat string `yaml:"output"`

	ServeAddr       string        `yaml:"serve"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		OutputFormat:    string(output.FormatText),
		RateBurst:       DefaultRateBurst,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfigFile overlays the YAML file at path onto cfg. Keys missing
// from the file leave the corresponding fields untouched.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	format, err := output.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	cfg.OutputFormat = string(format)

	if cfg.RateLimit < 0 {
		return nil, errors.New("invalid rate-limit: must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return nil, errors.New("invalid rate-burst: must be at least 1 when rate limiting is enabled")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	if len(cfg.Expressions) == 0 && cfg.ServeAddr == "" {
		return nil, errors.New("nothing to do: provide at least one expression or a serve address")
	}

	return &cfg, nil
}

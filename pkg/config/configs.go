// Package config provides configuration management for the tracker.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all tracker configuration options.
type Config struct {
	// Source settings
	URL       string        `yaml:"url" envconfig:"URL"`
	ElementID string        `yaml:"element_id" envconfig:"ELEMENT_ID"`
	KeyPath   string        `yaml:"key_path" envconfig:"KEY_PATH"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`

	// Collection settings
	Period  time.Duration `yaml:"period" envconfig:"PERIOD"`
	Retries int           `yaml:"retries" envconfig:"RETRIES"`
	Backoff time.Duration `yaml:"backoff" envconfig:"BACKOFF"`

	// Analysis settings
	Window   int     `yaml:"window" envconfig:"WINDOW"`
	MaxLag   int     `yaml:"max_lag" envconfig:"MAX_LAG"`
	NFFT     int     `yaml:"nfft" envconfig:"NFFT"`
	NOverlap int     `yaml:"noverlap" envconfig:"NOVERLAP"`
	RateMin  float64 `yaml:"rate_min" envconfig:"RATE_MIN"`
	RateMax  float64 `yaml:"rate_max" envconfig:"RATE_MAX"`

	// Display settings
	Refresh     time.Duration `yaml:"refresh" envconfig:"REFRESH"`
	Addr        string        `yaml:"addr" envconfig:"ADDR"`
	OutputDir   string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	GraphFormat string        `yaml:"graph_format" envconfig:"GRAPH_FORMAT"`

	// Logging
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFile  string `yaml:"log_file" envconfig:"LOG_FILE"`

	// SessionID identifies one process run in logs and dashboards.
	SessionID string `yaml:"-" ignored:"true"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		URL:         DefaultURL,
		ElementID:   DefaultElementID,
		KeyPath:     DefaultKeyPath,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		Period:      DefaultPeriod,
		Retries:     DefaultRetries,
		Backoff:     DefaultBackoff,
		Window:      DefaultWindow,
		MaxLag:      DefaultMaxLag,
		NFFT:        DefaultNFFT,
		NOverlap:    DefaultNOverlap,
		RateMin:     DefaultRateMin,
		RateMax:     DefaultRateMax,
		Refresh:     DefaultRefresh,
		Addr:        DefaultAddr,
		GraphFormat: DefaultGraphFormat,
		LogLevel:    DefaultLogLevel,
		SessionID:   uuid.NewString(),
	}
}

// LoadFile overlays values from a YAML file. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays values from VTRACK_* environment variables.
func (c *Config) LoadEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}
	if c.Period <= 0 {
		return fmt.Errorf("period must be positive, got %v", c.Period)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative, got %d", c.Retries)
	}
	if c.Backoff < 0 {
		return fmt.Errorf("backoff cannot be negative, got %v", c.Backoff)
	}
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	if c.MaxLag < 0 {
		return fmt.Errorf("max lag cannot be negative, got %d", c.MaxLag)
	}
	if c.NFFT < 2 {
		return fmt.Errorf("nfft must be at least 2, got %d", c.NFFT)
	}
	if c.NOverlap < 0 || c.NOverlap >= c.NFFT {
		return fmt.Errorf("noverlap must be in [0, nfft), got %d (nfft %d)", c.NOverlap, c.NFFT)
	}
	if c.RateMax <= c.RateMin {
		return fmt.Errorf("rate range is empty: [%g, %g]", c.RateMin, c.RateMax)
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("refresh must be positive, got %v", c.Refresh)
	}
	if !isValidGraphFormat(c.GraphFormat) {
		return fmt.Errorf("invalid graph format: %s (valid: html, png, all)", c.GraphFormat)
	}
	return nil
}

// ValidGraphFormats returns the list of supported graph formats.
func ValidGraphFormats() []string {
	return []string{"html", "png", "all"}
}

func isValidGraphFormat(format string) bool {
	for _, f := range ValidGraphFormats() {
		if f == format {
			return true
		}
	}
	return false
}

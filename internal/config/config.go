// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/brand-compliance/internal/scoring"
)

// Defaults applied by MergeWithDefaults
const (
	DefaultPort            = 8080
	DefaultRateLimit       = 10.0
	DefaultRateBurst       = 20
	DefaultAdvisoryTimeout = "5s"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Guideline sources
	GuidelinesFile string `json:"guidelines_file,omitempty" yaml:"guidelines_file,omitempty"` // YAML or JSON guideline file
	SQLitePath     string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`         // SQLite guideline database
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`       // PostgreSQL connection URL

	// Brand defaults
	BrandID  string `json:"brand_id,omitempty" yaml:"brand_id,omitempty"`
	Industry string `json:"industry,omitempty" yaml:"industry,omitempty"`

	// Scoring
	Weights      scoring.Weights `json:"weights,omitempty" yaml:"weights,omitempty"`
	NearestColor bool            `json:"nearest_color,omitempty" yaml:"nearest_color,omitempty"` // Suggest nearest palette color
	Concurrency  int             `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`     // Elements evaluated at once

	// Text advisory
	APIKey          string `json:"api_key,omitempty" yaml:"api_key,omitempty"`                   // Gemini API key
	AdvisoryModel   string `json:"advisory_model,omitempty" yaml:"advisory_model,omitempty"`     // Overrides the lite model
	AdvisoryTimeout string `json:"advisory_timeout,omitempty" yaml:"advisory_timeout,omitempty"` // Go duration, e.g. "5s"

	// Server
	Port           int      `json:"port,omitempty" yaml:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	RateLimit      float64  `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"` // Requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`
	RequireAuth    bool     `json:"require_auth,omitempty" yaml:"require_auth,omitempty"` // Require a bearer token

	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a file. .yaml and .yml files are
// parsed as YAML, everything else as JSON.
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

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.GuidelinesFile != "" && c.SQLitePath != "" {
		return fmt.Errorf("config error: 'guidelines_file' and 'sqlite_path' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("config error: 'rate_burst' must be non-negative")
	}
	if c.Weights != (scoring.Weights{}) && !c.Weights.Valid() {
		return fmt.Errorf("config error: 'weights' must be non-negative with a positive sum")
	}
	if c.AdvisoryTimeout != "" {
		d, err := time.ParseDuration(c.AdvisoryTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'advisory_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'advisory_timeout' must be positive")
		}
	}

	// Validate file paths exist (if specified)
	if c.GuidelinesFile != "" {
		if _, err := os.Stat(c.GuidelinesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: guidelines file not found: %s", c.GuidelinesFile)
		}
	}

	return nil
}

// AdvisoryTimeoutDuration returns the parsed advisory timeout, or zero when
// unset or invalid
func (c *Config) AdvisoryTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.AdvisoryTimeout)
	if err != nil {
		return 0
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GuidelinesFile == "" && result.SQLitePath == "" {
		result.GuidelinesFile = defaults.GuidelinesFile
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.BrandID == "" {
		result.BrandID = defaults.BrandID
	}
	if result.Industry == "" {
		result.Industry = defaults.Industry
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AdvisoryModel == "" {
		result.AdvisoryModel = defaults.AdvisoryModel
	}
	if result.AdvisoryTimeout == "" {
		if defaults.AdvisoryTimeout != "" {
			result.AdvisoryTimeout = defaults.AdvisoryTimeout
		} else {
			result.AdvisoryTimeout = DefaultAdvisoryTimeout
		}
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.RateBurst == 0 {
		if defaults.RateBurst > 0 {
			result.RateBurst = defaults.RateBurst
		} else {
			result.RateBurst = DefaultRateBurst
		}
	}

	// Float fields
	if result.RateLimit == 0 {
		if defaults.RateLimit > 0 {
			result.RateLimit = defaults.RateLimit
		} else {
			result.RateLimit = DefaultRateLimit
		}
	}
	if result.Weights == (scoring.Weights{}) {
		if defaults.Weights.Valid() {
			result.Weights = defaults.Weights
		} else {
			result.Weights = scoring.DefaultWeights()
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

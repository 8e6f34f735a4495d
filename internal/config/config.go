// Package config provides configuration loading and validation for the analyzer CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Defaults applied by MergeWithDefaults when neither the file nor flags set a value.
const (
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 5 * 1024 * 1024
	DefaultConcurrency    = 4
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Job description source for the analyze command
	JobFile string `json:"job_file,omitempty"` // Path to job description text file
	JobURL  string `json:"job_url,omitempty"`  // URL to fetch job description from

	// Analysis
	SkillCatalog  []string `json:"skill_catalog,omitempty"`  // Overrides the built-in skill catalog (order matters)
	SnapshotLimit int      `json:"snapshot_limit,omitempty"` // Characters of extracted text kept on reports

	// Server
	Port           int   `json:"port,omitempty"`
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty"`

	// Behavior
	Concurrency int    `json:"concurrency,omitempty"` // Parallel documents for batch analysis
	Verbose     bool   `json:"verbose,omitempty"`     // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"`
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

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.JobFile != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job_file' and 'job_url' are mutually exclusive")
	}

	if c.SnapshotLimit < 0 {
		return fmt.Errorf("config error: 'snapshot_limit' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.SkillCatalog != nil && analysis.NewSkillCatalog(c.SkillCatalog...).Len() == 0 {
		return fmt.Errorf("config error: 'skill_catalog' has no usable terms")
	}

	if c.JobFile != "" {
		if _, err := os.Stat(c.JobFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.JobFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.JobFile == "" {
		result.JobFile = defaults.JobFile
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if len(result.SkillCatalog) == 0 {
		result.SkillCatalog = defaults.SkillCatalog
	}

	// Numeric fields: use default if zero, then fall back to built-in defaults
	if result.SnapshotLimit == 0 {
		result.SnapshotLimit = defaults.SnapshotLimit
	}
	if result.SnapshotLimit == 0 {
		result.SnapshotLimit = analysis.DefaultSnapshotLimit
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Concurrency == 0 {
		result.Concurrency = DefaultConcurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Catalog returns the configured skill catalog, or the built-in one when none is set.
func (c *Config) Catalog() analysis.SkillCatalog {
	if len(c.SkillCatalog) == 0 {
		return analysis.DefaultSkillCatalog()
	}
	return analysis.NewSkillCatalog(c.SkillCatalog...)
}

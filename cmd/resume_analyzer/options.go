package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/config"
)

// loadConfig reads --config when given, applies explicitly set flags through
// apply, then fills the rest from the environment and built-in defaults.
func loadConfig(cmd *cobra.Command, path string, apply func(cfg *config.Config)) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if flagBool(cmd, "verbose") {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", path)
		}
	}

	if apply != nil {
		apply(&cfg)
	}

	merged := cfg.MergeWithDefaults(config.FromEnv())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	return err == nil && v
}

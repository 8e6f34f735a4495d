package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvDatabaseURL    = "DATABASE_URL"
	EnvPort           = "PORT"
	EnvSkillCatalog   = "ANALYZER_SKILL_CATALOG"
	EnvSnapshotLimit  = "ANALYZER_SNAPSHOT_LIMIT"
	EnvMaxUploadBytes = "ANALYZER_MAX_UPLOAD_BYTES"
)

// FromEnv builds a Config from environment variables. Unset or unparsable values
// are left zero so MergeWithDefaults can fill them.
func FromEnv() Config {
	return Config{
		DatabaseURL:    os.Getenv(EnvDatabaseURL),
		Port:           getEnvInt(EnvPort, 0),
		SkillCatalog:   parseList(os.Getenv(EnvSkillCatalog)),
		SnapshotLimit:  getEnvInt(EnvSnapshotLimit, 0),
		MaxUploadBytes: int64(getEnvInt(EnvMaxUploadBytes, 0)),
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseList splits a comma-separated list, dropping blanks.
func parseList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Package config centralises the handful of environment-driven knobs that
// govern gmtrace's ambient services (structured logging, archive retention)
// independent of the per-run Setup a host passes to Init.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLogLevel controls verbosity for harness logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "gmtrace.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 50
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 5
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true

	// DefaultArchiveMaxRuns bounds how many archived test files are retained.
	DefaultArchiveMaxRuns = 50
	// DefaultArchiveMaxAge bounds the age of archived test files retained on disk.
	DefaultArchiveMaxAge = 14 * 24 * time.Hour
)

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ArchiveConfig captures retention tunables for archived test files.
type ArchiveConfig struct {
	MaxRuns int
	MaxAge  time.Duration
}

// Config captures all environment-sourced tunables for the ambient services.
type Config struct {
	Logging LoggingConfig
	Archive ArchiveConfig
}

// Load reads ambient configuration from environment variables, applying sane
// defaults and returning descriptive errors for invalid overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("GMTRACE_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("GMTRACE_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		Archive: ArchiveConfig{
			MaxRuns: DefaultArchiveMaxRuns,
			MaxAge:  DefaultArchiveMaxAge,
		},
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("GMTRACE_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("GMTRACE_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("GMTRACE_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("GMTRACE_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_ARCHIVE_MAX_RUNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("GMTRACE_ARCHIVE_MAX_RUNS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Archive.MaxRuns = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("GMTRACE_ARCHIVE_MAX_AGE")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration < 0 {
			problems = append(problems, fmt.Sprintf("GMTRACE_ARCHIVE_MAX_AGE must be a non-negative duration, got %q", raw))
		} else {
			cfg.Archive.MaxAge = duration
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

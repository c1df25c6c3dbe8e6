package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GMTRACE_LOG_LEVEL", "")
	t.Setenv("GMTRACE_LOG_PATH", "")
	t.Setenv("GMTRACE_LOG_MAX_SIZE_MB", "")
	t.Setenv("GMTRACE_LOG_MAX_BACKUPS", "")
	t.Setenv("GMTRACE_LOG_MAX_AGE_DAYS", "")
	t.Setenv("GMTRACE_LOG_COMPRESS", "")
	t.Setenv("GMTRACE_ARCHIVE_MAX_RUNS", "")
	t.Setenv("GMTRACE_ARCHIVE_MAX_AGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Logging.Level != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
	if cfg.Logging.Path != DefaultLogPath {
		t.Fatalf("expected default log path %q, got %q", DefaultLogPath, cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Fatalf("expected default log max size %d, got %d", DefaultLogMaxSizeMB, cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Fatalf("expected default log max backups %d, got %d", DefaultLogMaxBackups, cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != DefaultLogMaxAgeDays {
		t.Fatalf("expected default log max age %d, got %d", DefaultLogMaxAgeDays, cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress != DefaultLogCompress {
		t.Fatalf("expected default log compress %t, got %t", DefaultLogCompress, cfg.Logging.Compress)
	}
	if cfg.Archive.MaxRuns != DefaultArchiveMaxRuns {
		t.Fatalf("expected default archive max runs %d, got %d", DefaultArchiveMaxRuns, cfg.Archive.MaxRuns)
	}
	if cfg.Archive.MaxAge != DefaultArchiveMaxAge {
		t.Fatalf("expected default archive max age %v, got %v", DefaultArchiveMaxAge, cfg.Archive.MaxAge)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GMTRACE_LOG_LEVEL", "debug")
	t.Setenv("GMTRACE_LOG_PATH", "/var/log/gmtrace.log")
	t.Setenv("GMTRACE_LOG_MAX_SIZE_MB", "512")
	t.Setenv("GMTRACE_LOG_MAX_BACKUPS", "4")
	t.Setenv("GMTRACE_LOG_MAX_AGE_DAYS", "2")
	t.Setenv("GMTRACE_LOG_COMPRESS", "false")
	t.Setenv("GMTRACE_ARCHIVE_MAX_RUNS", "9")
	t.Setenv("GMTRACE_ARCHIVE_MAX_AGE", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected overridden log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Path != "/var/log/gmtrace.log" {
		t.Fatalf("unexpected log path %q", cfg.Logging.Path)
	}
	if cfg.Logging.MaxSizeMB != 512 {
		t.Fatalf("expected log max size 512, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 4 {
		t.Fatalf("expected log max backups 4, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != 2 {
		t.Fatalf("expected log max age 2, got %d", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress {
		t.Fatalf("expected log compression disabled")
	}
	if cfg.Archive.MaxRuns != 9 {
		t.Fatalf("expected archive max runs 9, got %d", cfg.Archive.MaxRuns)
	}
	if cfg.Archive.MaxAge != 48*time.Hour {
		t.Fatalf("expected archive max age 48h, got %v", cfg.Archive.MaxAge)
	}
}

func TestLoadReturnsValidationErrors(t *testing.T) {
	t.Setenv("GMTRACE_LOG_MAX_SIZE_MB", "-1")
	t.Setenv("GMTRACE_LOG_MAX_BACKUPS", "-2")
	t.Setenv("GMTRACE_LOG_MAX_AGE_DAYS", "-3")
	t.Setenv("GMTRACE_LOG_COMPRESS", "notabool")
	t.Setenv("GMTRACE_ARCHIVE_MAX_RUNS", "-4")
	t.Setenv("GMTRACE_ARCHIVE_MAX_AGE", "-1h")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error from invalid configuration, got nil")
	}

	for _, want := range []string{
		"GMTRACE_LOG_MAX_SIZE_MB",
		"GMTRACE_LOG_MAX_BACKUPS",
		"GMTRACE_LOG_MAX_AGE_DAYS",
		"GMTRACE_LOG_COMPRESS",
		"GMTRACE_ARCHIVE_MAX_RUNS",
		"GMTRACE_ARCHIVE_MAX_AGE",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}

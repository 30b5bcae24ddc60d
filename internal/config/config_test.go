package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APTMAINT_LOG_DIR", "APTMAINT_DB", "APTMAINT_APT_GET", "APTMAINT_APT_CACHE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.AptGet != DefaultAptGet {
		t.Errorf("AptGet = %q, want %q", cfg.AptGet, DefaultAptGet)
	}
	if cfg.AptCache != DefaultAptCache {
		t.Errorf("AptCache = %q, want %q", cfg.AptCache, DefaultAptCache)
	}
	if len(cfg.LockPaths) == 0 {
		t.Error("expected default LockPaths to be non-empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APTMAINT_LOG_DIR", "/tmp/aptmaint-logs")
	t.Setenv("APTMAINT_DB", "/tmp/aptmaint.db")
	t.Setenv("APTMAINT_APT_GET", "/usr/local/bin/apt-get")
	t.Setenv("APTMAINT_APT_CACHE", "/usr/local/bin/apt-cache")

	cfg := Load()

	if cfg.LogDir != "/tmp/aptmaint-logs" {
		t.Errorf("LogDir = %q, want env override", cfg.LogDir)
	}
	if cfg.DBPath != "/tmp/aptmaint.db" {
		t.Errorf("DBPath = %q, want env override", cfg.DBPath)
	}
	if cfg.AptGet != "/usr/local/bin/apt-get" {
		t.Errorf("AptGet = %q, want env override", cfg.AptGet)
	}
	if cfg.AptCache != "/usr/local/bin/apt-cache" {
		t.Errorf("AptCache = %q, want env override", cfg.AptCache)
	}
}

func TestLogPath_TimestampFormat(t *testing.T) {
	cfg := &Config{LogDir: "/var/log/aptmaint"}
	start := time.Date(2024, 3, 11, 14, 22, 33, 0, time.UTC)

	got := cfg.LogPath(start)
	want := filepath.Join("/var/log/aptmaint", "aptmaint-20240311-142233.log")
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestLogPath_SecondResolution(t *testing.T) {
	cfg := &Config{LogDir: "/tmp"}

	a := cfg.LogPath(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC))
	b := cfg.LogPath(time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC))
	if a == b {
		t.Errorf("sessions one second apart should get distinct log paths, got %q twice", a)
	}

	if !strings.HasSuffix(a, ".log") {
		t.Errorf("log path should end in .log, got %q", a)
	}
}

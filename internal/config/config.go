// Package config provides the immutable per-session configuration for aptmaint.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Built-in defaults. aptmaint runs as root, so the log and journal live under
// the system directories rather than the invoking user's home.
const (
	DefaultLogDir = "/var/log/aptmaint"
	DefaultDBPath = "/var/lib/aptmaint/history.db"

	DefaultAptGet   = "apt-get"
	DefaultAptCache = "apt-cache"
)

// DefaultLockPaths are the lock files dpkg and apt hold while mutating the
// system. They are probed before every mutating operation so a concurrently
// running package manager produces a clear "waiting" message instead of an
// apt lock error.
var DefaultLockPaths = []string{
	"/var/lib/dpkg/lock-frontend",
	"/var/lib/dpkg/lock",
}

// Config carries everything the session components need: where the log file
// and history journal live, which binaries to invoke, and which lock files to
// probe. It is built once at startup and never mutated afterwards; every
// component receives it by reference instead of consulting globals.
type Config struct {
	LogDir    string   // directory receiving one timestamped log per session
	DBPath    string   // SQLite history journal
	AptGet    string   // binary for list refresh and mutating operations
	AptCache  string   // binary for package search
	LockPaths []string // dpkg/apt lock files checked before mutating operations
}

// Load builds a Config from built-in defaults with environment overrides
// applied. The APTMAINT_APT_GET and APTMAINT_APT_CACHE overrides exist for
// tests and unusual installs; normal operation never sets them.
func Load() *Config {
	cfg := &Config{
		LogDir:    DefaultLogDir,
		DBPath:    DefaultDBPath,
		AptGet:    DefaultAptGet,
		AptCache:  DefaultAptCache,
		LockPaths: DefaultLockPaths,
	}

	if v := os.Getenv("APTMAINT_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("APTMAINT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("APTMAINT_APT_GET"); v != "" {
		cfg.AptGet = v
	}
	if v := os.Getenv("APTMAINT_APT_CACHE"); v != "" {
		cfg.AptCache = v
	}

	return cfg
}

// LogPath returns the log file path for a session that started at the given
// time. One file per session, named to second resolution, e.g.
// /var/log/aptmaint/aptmaint-20240311-142233.log.
func (c *Config) LogPath(start time.Time) string {
	return filepath.Join(c.LogDir, "aptmaint-"+start.Format("20060102-150405")+".log")
}

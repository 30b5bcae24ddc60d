package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aptmaint/internal/config"
)

// Version is the release version reported by --version. Overridden at build
// time via -ldflags "-X aptmaint/internal/app.Version=...".
var Version = "0.3.0"

// geteuid is swapped in tests to exercise both sides of the privilege gate.
var geteuid = os.Geteuid

var (
	autoMode   bool
	logDirFlag string
	dbPathFlag string

	// RootCmd is the root command for aptmaint.
	RootCmd = &cobra.Command{
		Use:   "aptmaint",
		Short: "Menu-driven apt maintenance with a full session transcript",
		Long: `aptmaint drives routine Debian/Ubuntu package maintenance from a
numbered menu and keeps a complete transcript: every line shown on the
console, including the full output of every apt command, is appended to
a timestamped log under /var/log/aptmaint.

aptmaint must run as root. The check happens before the log file is
created and before any command is launched.

Menu:
  1  Update package lists
  2  Upgrade installed packages
  3  Full upgrade (may add or remove packages)
  4  Search for a package
  5  Install a package
  6  Remove a package
  7  Remove unused dependencies
  8  Clean obsolete package archives
  9  Run the full maintenance sequence
  0  Exit

Examples:
  # Interactive menu
  sudo aptmaint

  # Unattended run: update, upgrade, dist-upgrade, autoremove, autoclean
  sudo aptmaint --auto

  # Recent operations from the history journal (no root needed)
  aptmaint history

  # Environment health check
  aptmaint doctor`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	RootCmd.Flags().BoolVarP(&autoMode, "auto", "a", false, "run the full maintenance sequence unattended and exit")

	// Global flags
	RootCmd.PersistentFlags().StringVar(&logDirFlag, "log-dir", "", "session log directory (default: /var/log/aptmaint)")
	RootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "history database path (default: /var/lib/aptmaint/history.db)")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	// Unknown or malformed flags are invocation mistakes: mark them so main
	// follows the error with the usage text.
	RootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	// Nothing runs without apt privileges, and the privilege check comes
	// before the session log is created so a refused run leaves no trace
	// in the log directory.
	if geteuid() != 0 {
		return fmt.Errorf("aptmaint must run as root (try: sudo aptmaint)")
	}

	if autoMode {
		return runAuto(cfg)
	}
	return runInteractive(cfg, os.Stdin)
}

// Execute runs the root command. Invocation mistakes (unknown flags, stray
// arguments, unknown subcommands) come back marked as usage errors so main
// can print the usage text after the error message.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil && strings.Contains(err.Error(), "unknown command") {
		return usageError{err}
	}
	return err
}

// usageError marks errors caused by how the tool was invoked, as opposed to
// failures while doing work.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// IsUsageError reports whether err stems from a bad invocation.
func IsUsageError(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}

// Usage returns the root command's usage text.
func Usage() string {
	return RootCmd.UsageString()
}

// loadConfig resolves the effective configuration: flags beat environment
// variables beat built-in defaults.
func loadConfig() *config.Config {
	cfg := config.Load()
	if logDirFlag != "" {
		cfg.LogDir = logDirFlag
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	return cfg
}

// Package apt defines the fixed catalog of maintenance operations and the
// apt-get/apt-cache command line each one expands to. The catalog is the
// single source of truth: the interactive menu, the unattended sequence and
// the history journal all derive their names and ordering from it.
package apt

import (
	"strings"

	"aptmaint/internal/config"
)

// Operation identifies one entry in the maintenance catalog.
type Operation int

// Menu order. The interactive menu numbers these 1 through 8 in declaration
// order, so reordering the constants reorders the menu.
const (
	RefreshLists Operation = iota
	Upgrade
	FullUpgrade
	Search
	Install
	Remove
	AutoRemove
	AutoClean
)

// Operations returns the full catalog in menu order.
func Operations() []Operation {
	return []Operation{
		RefreshLists,
		Upgrade,
		FullUpgrade,
		Search,
		Install,
		Remove,
		AutoRemove,
		AutoClean,
	}
}

// AutoSequence returns the operations the unattended run performs, in order.
// Only the non-interactive housekeeping steps are included; search, install
// and remove need user input and have no place in an unattended pass.
func AutoSequence() []Operation {
	return []Operation{
		RefreshLists,
		Upgrade,
		FullUpgrade,
		AutoRemove,
		AutoClean,
	}
}

// String returns the short name used in the journal and in log lines. It
// matches the underlying apt verb so a reader can correlate history entries
// with apt's own logs.
func (o Operation) String() string {
	switch o {
	case RefreshLists:
		return "update"
	case Upgrade:
		return "upgrade"
	case FullUpgrade:
		return "dist-upgrade"
	case Search:
		return "search"
	case Install:
		return "install"
	case Remove:
		return "remove"
	case AutoRemove:
		return "autoremove"
	case AutoClean:
		return "autoclean"
	default:
		return "unknown"
	}
}

// MenuLabel returns the human-readable description shown in the interactive
// menu next to the operation's number.
func (o Operation) MenuLabel() string {
	switch o {
	case RefreshLists:
		return "Update package lists"
	case Upgrade:
		return "Upgrade installed packages"
	case FullUpgrade:
		return "Full upgrade (may add or remove packages)"
	case Search:
		return "Search for a package"
	case Install:
		return "Install a package"
	case Remove:
		return "Remove a package"
	case AutoRemove:
		return "Remove unused dependencies"
	case AutoClean:
		return "Clean obsolete package archives"
	default:
		return "Unknown operation"
	}
}

// NeedsArgument reports whether the operation requires a user-supplied
// package name or search term before it can run.
func (o Operation) NeedsArgument() bool {
	switch o {
	case Search, Install, Remove:
		return true
	default:
		return false
	}
}

// Prompt returns the question asked when the operation needs an argument.
// Empty for operations that take none.
func (o Operation) Prompt() string {
	switch o {
	case Search:
		return "Search term: "
	case Install:
		return "Package to install: "
	case Remove:
		return "Package to remove: "
	default:
		return ""
	}
}

// Command is a fully expanded child command: the binary to invoke and its
// argument vector. Bin is resolved through PATH by the runner.
type Command struct {
	Bin  string
	Args []string
}

// String renders the command the way it would be typed at a shell prompt.
// Used for announcement lines; the argument is shown verbatim, not quoted.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Bin
	}
	return c.Bin + " " + strings.Join(c.Args, " ")
}

// Command expands the operation into the command line to execute. The
// argument is passed through as a single token exactly as the user typed it;
// no shell is involved, so shell metacharacters have no effect. Mutating
// operations run with -y because the session transcript, not a second
// confirmation prompt, is the review mechanism.
func (o Operation) Command(cfg *config.Config, arg string) Command {
	switch o {
	case RefreshLists:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "update"}}
	case Upgrade:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "upgrade"}}
	case FullUpgrade:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "dist-upgrade"}}
	case Search:
		return Command{Bin: cfg.AptCache, Args: []string{"search", arg}}
	case Install:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "install", arg}}
	case Remove:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "remove", arg}}
	case AutoRemove:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "autoremove"}}
	case AutoClean:
		return Command{Bin: cfg.AptGet, Args: []string{"-q", "-y", "autoclean"}}
	default:
		return Command{}
	}
}

// MutatesSystem reports whether the operation changes installed packages or
// apt state. Search only reads the package cache, so it is exempt from the
// dpkg lock check.
func (o Operation) MutatesSystem() bool {
	return o != Search
}

// Package dpkglock probes the lock files dpkg and apt hold while they mutate
// the system. Checking them before launching a mutating command turns apt's
// "could not get lock" error into a clear waiting message.
package dpkglock

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"

	"aptmaint/internal/output"
)

// probeInterval is the polling cadence while waiting for a lock holder to
// finish. Releasing a POSIX lock does not produce a filesystem event, so
// this ticker is what guarantees the wait ends; directory events only wake
// the loop sooner.
const probeInterval = 500 * time.Millisecond

// Probe returns the path of the first lock currently held by another
// process, or "" when every lock is free. A missing lock file counts as
// free: dpkg creates the files on demand.
func Probe(paths []string) (string, error) {
	for _, path := range paths {
		held, err := probeOne(path)
		if err != nil {
			return "", err
		}
		if held {
			return path, nil
		}
	}
	return "", nil
}

// probeOne asks the kernel whether any process holds a lock that would
// block a write lock on the file, without taking the lock ourselves. dpkg
// and apt lock via fcntl, and on Linux only an fcntl query sees fcntl
// locks, so F_GETLK rather than flock.
func probeOne(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}
	defer f.Close()

	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: io.SeekStart,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_GETLK, &lk); err != nil {
		return false, fmt.Errorf("failed to probe lock file %s: %w", path, err)
	}

	// The kernel rewrites Type to F_UNLCK when nothing conflicts.
	return lk.Type != unix.F_UNLCK, nil
}

// Wait blocks until every lock in paths is free. When a lock is held it
// announces the wait once through the sink, spins on the console, and
// re-probes on each tick and on each event from the lock directories. There
// is no cancellation: like a launched command, a lock wait runs until it
// resolves.
func Wait(sink *output.Sink, paths []string) error {
	holder, err := Probe(paths)
	if err != nil {
		return err
	}
	if holder == "" {
		return nil
	}

	sink.Warnf("Another package manager holds %s; waiting for it to finish...", holder)

	spin := output.NewSpinner("Waiting for package manager lock")
	spin.SetWriter(sink.Console())
	spin.Start()
	defer spin.Stop()

	watcher := watchLockDirs(paths)
	if watcher != nil {
		defer watcher.Close()
	}

	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-events:
		case <-watchErrs:
			// Watcher trouble is not fatal; the ticker keeps probing.
		}

		holder, err = Probe(paths)
		if err != nil {
			return err
		}
		if holder == "" {
			spin.Stop()
			sink.Successf("Lock released, continuing.")
			return nil
		}
	}
}

// watchLockDirs opens a watcher on the directories containing the lock
// files. The files themselves may not exist yet, and watching the directory
// also catches their creation and removal. Best-effort: any failure returns
// nil and Wait falls back to pure polling.
func watchLockDirs(paths []string) *fsnotify.Watcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}

	watching := false
	for dir := range dirs {
		if err := w.Add(dir); err == nil {
			watching = true
		}
	}
	if !watching {
		w.Close() //nolint:errcheck — best-effort
		return nil
	}
	return w
}

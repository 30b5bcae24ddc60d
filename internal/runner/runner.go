// Package runner launches catalog commands as child processes and supervises
// them to completion. Child stdout and stderr stream straight into the
// session sink, so everything apt prints lands in the transcript interleaved
// with our own messages.
package runner

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/mitchellh/go-ps"

	"aptmaint/internal/apt"
	"aptmaint/internal/output"
)

// Result describes one completed child process.
type Result struct {
	ExitCode int           // child exit code; -1 when the child never ran
	Duration time.Duration // wall clock from launch to join
	Err      error         // launch or supervision failure, nil otherwise
}

// Success reports whether the child ran and exited zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner executes commands one at a time against a session sink.
type Runner struct {
	sink *output.Sink
}

// New creates a Runner writing child output to the given sink.
func New(sink *output.Sink) *Runner {
	return &Runner{sink: sink}
}

// Run launches the command and blocks until it terminates, spinning on the
// console while it works. label is the message shown next to the spinner.
//
// Stdin is left disconnected: every mutating apt invocation carries -y, and
// a child that tries to prompt anyway reads EOF instead of hanging the
// session. There is no cancellation; a started command runs to completion.
func (r *Runner) Run(command apt.Command, label string) Result {
	start := time.Now()

	cmd := exec.Command(command.Bin, command.Args...)
	cmd.Stdout = r.sink
	cmd.Stderr = r.sink

	if err := cmd.Start(); err != nil {
		return Result{
			ExitCode: -1,
			Duration: time.Since(start),
			Err:      fmt.Errorf("failed to start %s: %w", command.Bin, err),
		}
	}

	spin := output.NewSpinner(label)
	spin.SetWriter(r.sink.Console())

	// The blocking reap happens on its own goroutine; Wait also joins the
	// pipe-copy goroutines, so once done fires the transcript holds every
	// byte the child wrote.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	waitErr := r.supervise(cmd.Process.Pid, spin, done)
	spin.Clear()

	res := Result{Duration: time.Since(start)}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		res.ExitCode = 0
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = fmt.Errorf("failed to wait for %s: %w", command.Bin, waitErr)
	}
	return res
}

// supervise drives the spinner until the child is reaped, probing process
// existence on each frame. The done channel is the authoritative join; the
// probe only decides whether another frame is worth drawing (a child that
// has exited but is not yet reaped shows up as a zombie and still counts as
// present).
func (r *Runner) supervise(pid int, spin *output.Spinner, done <-chan error) error {
	ticker := time.NewTicker(output.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			if processAlive(pid) {
				spin.Tick()
			}
		}
	}
}

// processAlive reports whether the kernel still knows the pid. On Linux a
// vanished process comes back as (nil, nil), not as an error.
func processAlive(pid int) bool {
	proc, err := ps.FindProcess(pid)
	return err == nil && proc != nil
}

package app

import (
	"time"

	"aptmaint/internal/apt"
	"aptmaint/internal/dpkglock"
	"aptmaint/internal/output"
	"aptmaint/internal/runner"
)

// executor runs one expanded command to completion. Satisfied by
// runner.Runner; tests substitute a fake to script outcomes.
type executor interface {
	Run(cmd apt.Command, label string) runner.Result
}

// runOperation is the one path every operation takes, interactive or
// unattended: wait out the dpkg locks, announce the exact command, run it,
// report the outcome, journal it. Failures are reported and absorbed; the
// session always continues.
func (d *dispatcher) runOperation(op apt.Operation, arg string) runner.Result {
	sink := d.sess.Sink

	if op.MutatesSystem() {
		if err := dpkglock.Wait(sink, d.cfg.LockPaths); err != nil {
			// A failed probe is not worth refusing the operation over;
			// apt does its own locking and will say so if it loses.
			sink.Warnf("Could not check the dpkg locks: %v", err)
		}
	}

	command := op.Command(d.cfg, arg)
	sink.Printf("\n")
	sink.Headerf("Running: %s", command)

	startedAt := time.Now()
	res := d.exec.Run(command, op.MenuLabel())

	switch {
	case res.Err != nil:
		sink.Failf("✗ %v", res.Err)
	case res.ExitCode != 0:
		sink.Warnf("⚠ Exited with status %d (%s)", res.ExitCode, output.FormatDuration(res.Duration))
	default:
		sink.Successf("✓ Completed in %s", output.FormatDuration(res.Duration))
	}

	d.sess.RecordOperation(op.String(), arg, startedAt, res.Duration, res.ExitCode)
	return res
}

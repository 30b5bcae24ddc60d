package app

import (
	"os"

	"aptmaint/internal/apt"
	"aptmaint/internal/config"
	"aptmaint/internal/runner"
	"aptmaint/internal/session"
	"aptmaint/internal/store"
)

// runAuto is the --auto path: one session, the fixed maintenance sequence,
// then exit. The exit status is 0 even when individual steps fail; the
// transcript and the journal carry the per-step outcomes, and an unattended
// caller (cron, a one-liner in a runbook) should not abort on, say, a
// single held-back package.
func runAuto(cfg *config.Config) error {
	sess, err := session.New(cfg, store.ModeAuto)
	if err != nil {
		return err
	}
	defer sess.Close()

	// The sequence never prompts, so stdin goes unread; it is wired anyway
	// so the dispatcher is fully formed.
	d := newDispatcher(cfg, sess, runner.New(sess.Sink), os.Stdin)
	d.runAutoSequence()
	d.printExit()
	return nil
}

// runAutoSequence executes the five housekeeping steps in their fixed
// order: refresh lists, upgrade, dist-upgrade, autoremove, autoclean.
// Every step runs regardless of earlier failures.
func (d *dispatcher) runAutoSequence() {
	seq := apt.AutoSequence()
	sink := d.sess.Sink

	sink.Headerf("Full maintenance sequence: %d steps", len(seq))

	failed := 0
	for i, op := range seq {
		sink.Printf("\nStep %d/%d: %s\n", i+1, len(seq), op.MenuLabel())
		if res := d.runOperation(op, ""); !res.Success() {
			failed++
		}
	}

	sink.Printf("\n")
	if failed == 0 {
		sink.Successf("Maintenance sequence finished: all %d steps succeeded.", len(seq))
	} else {
		sink.Warnf("Maintenance sequence finished: %d of %d steps failed.", failed, len(seq))
	}
}

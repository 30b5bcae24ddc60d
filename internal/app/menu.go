package app

import (
	"bufio"
	"io"
	"strings"

	"aptmaint/internal/apt"
	"aptmaint/internal/config"
	"aptmaint/internal/runner"
	"aptmaint/internal/session"
	"aptmaint/internal/store"
)

// dispatcher owns one session's control flow: it renders the menu, reads
// selections, and hands operations to the executor one at a time.
type dispatcher struct {
	cfg  *config.Config
	sess *session.Session
	exec executor
	in   *bufio.Reader
}

func newDispatcher(cfg *config.Config, sess *session.Session, exec executor, in io.Reader) *dispatcher {
	return &dispatcher{
		cfg:  cfg,
		sess: sess,
		exec: exec,
		in:   bufio.NewReader(in),
	}
}

// runInteractive opens a session and runs the menu loop until the user
// exits. Reaching end of input behaves like choosing Exit, so a piped
// command script terminates cleanly.
func runInteractive(cfg *config.Config, in io.Reader) error {
	sess, err := session.New(cfg, store.ModeInteractive)
	if err != nil {
		return err
	}
	defer sess.Close()

	d := newDispatcher(cfg, sess, runner.New(sess.Sink), in)
	return d.loop()
}

func (d *dispatcher) loop() error {
	for {
		d.sess.Sink.ClearScreen()
		d.renderMenu()

		line, err := d.in.ReadString('\n')
		choice := strings.TrimSpace(line)
		if err != nil && choice == "" {
			// End of input with nothing left to do.
			d.printExit()
			return nil
		}

		switch choice {
		case "0":
			d.printExit()
			return nil
		case "9":
			d.runAutoSequence()
		case "1", "2", "3", "4", "5", "6", "7", "8":
			d.dispatch(apt.Operations()[choice[0]-'1'])
		default:
			d.sess.Sink.Warnf("Invalid choice %q: enter a number from 0 to 9.", choice)
		}

		d.pause()
	}
}

// renderMenu writes the menu through the sink so the transcript shows what
// the user was looking at when they chose.
func (d *dispatcher) renderMenu() {
	sink := d.sess.Sink

	sink.Headerf("aptmaint: Debian package maintenance")
	sink.Printf("Session log: %s\n\n", d.sess.LogPath)

	for i, op := range apt.Operations() {
		sink.Printf("  %d  %s\n", i+1, op.MenuLabel())
	}
	sink.Printf("  9  Run the full maintenance sequence\n")
	sink.Printf("  0  Exit\n")
	sink.Printf("\nSelect an option: ")
}

// dispatch collects the operation's argument when it needs one, then runs
// it. An empty argument cancels back to the menu without running anything.
func (d *dispatcher) dispatch(op apt.Operation) {
	arg := ""
	if op.NeedsArgument() {
		d.sess.Sink.Printf("%s", op.Prompt())
		line, _ := d.in.ReadString('\n')
		arg = strings.TrimSpace(line)
		if arg == "" {
			d.sess.Sink.Warnf("No name given: returning to the menu.")
			return
		}
	}
	d.runOperation(op, arg)
}

// pause holds the completed output on screen until the user presses Enter.
// End of input skips the pause; the next loop iteration exits cleanly.
func (d *dispatcher) pause() {
	d.sess.Sink.Printf("\nPress Enter to continue...")
	d.in.ReadString('\n') //nolint:errcheck — EOF just skips the pause
}

func (d *dispatcher) printExit() {
	d.sess.Sink.Printf("\nSession log saved to %s\n", d.sess.LogPath)
}

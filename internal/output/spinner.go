package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// FrameInterval is the cadence of spinner animation frames. The process
// runner polls child-process liveness on the same interval, rendering one
// frame per probe.
const FrameInterval = 100 * time.Millisecond

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner displays a rotating single-character indicator next to a message.
// Example: |  Upgrading installed packages
//
// Frames go to the terminal only, never to the session log: the transcript
// must stay clean of animation artifacts. On a non-TTY writer the spinner
// renders nothing at all; the caller's announcement through the Sink stands
// in for it.
//
// Two driving modes: Start spawns a ticker goroutine that animates until
// Stop (used while waiting on the dpkg locks); Tick advances one frame from
// a caller that already runs its own polling loop (used by the process
// runner, whose liveness probe shares the frame cadence).
type Spinner struct {
	message string
	running bool
	chars   []string
	idx     int
	mu      sync.Mutex
	writer  io.Writer
	ticker  *time.Ticker
	done    chan struct{}
}

// NewSpinner creates a new spinner with a message. The spinner is single-use:
// once stopped it cannot be restarted.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
}

// SetWriter sets the output writer. The process runner points this at the
// sink's console side; tests use a buffer.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the self-driving animation. On a non-TTY writer nothing is
// started and nothing is printed.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !writerIsTTY(s.writer) {
		return
	}

	s.running = true
	s.ticker = time.NewTicker(FrameInterval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.mu.Lock()
				if !s.running {
					s.mu.Unlock()
					return
				}
				s.render()
				s.mu.Unlock()

			case <-s.done:
				return
			}
		}
	}()
}

// Tick renders the next animation frame in place. For callers driving the
// spinner from their own polling loop; no-op on a non-TTY writer.
func (s *Spinner) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !writerIsTTY(s.writer) {
		return
	}
	s.render()
}

// render draws the current frame and advances the index (lock held).
func (s *Spinner) render() {
	fmt.Fprintf(s.writer, "\r%s  %s", s.chars[s.idx], s.message)
	s.idx = (s.idx + 1) % len(s.chars)
}

// Stop halts a Start-driven spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
	s.clearLine()
}

// Clear erases the spinner from the current line. For Tick-driven use,
// called once the supervised process has terminated.
func (s *Spinner) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLine()
}

// clearLine blanks the spinner line (lock held). On non-TTY writers the
// carriage return would not overwrite anything, so nothing is written.
func (s *Spinner) clearLine() {
	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	}
}

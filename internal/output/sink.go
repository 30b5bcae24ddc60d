package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Sink duplicates all user-visible output to the console and the session's
// append-only log file. Every menu line, announcement, warning, and every
// byte the external commands write to their own standard streams passes
// through here, so the log file is a complete chronological transcript of
// the session.
//
// Colored renditions go to the console only; the log always receives the
// plain text, so the transcript stays readable in any pager. Spinner frames
// and screen clearing bypass the sink entirely via Console().
type Sink struct {
	mu      sync.Mutex
	console io.Writer
	log     io.Writer
	file    *os.File // non-nil when Open created the log writer
	color   bool
}

// Open creates the session log file in append mode, creating parent
// directories as needed, and returns a Sink writing to it and to stdout.
// A log directory that cannot be created or written is fatal to the
// session: the caller must not proceed without a transcript.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Sink{
		console: os.Stdout,
		log:     f,
		file:    f,
		color:   IsColorEnabled(),
	}, nil
}

// NewSink builds a Sink over arbitrary writers (useful for testing).
// Color is disabled; tests that exercise coloring set the field directly.
func NewSink(console, log io.Writer) *Sink {
	return &Sink{console: console, log: log}
}

// Console returns the console-side writer for display-only artifacts such as
// spinner frames. Anything written to it never reaches the log.
func (s *Sink) Console() io.Writer {
	return s.console
}

// Write sends the same bytes to both destinations, preserving relative order.
// It implements io.Writer so external commands can stream their stdout and
// stderr straight into the transcript. Write never reports an error: a log
// hiccup mid-stream must not tear down the pipe from a running child
// process, and open-time failures are the fatal path.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console.Write(p) //nolint:errcheck — best-effort
	s.log.Write(p)     //nolint:errcheck — best-effort
	return len(p), nil
}

// emit writes the console rendition and the log rendition under one lock so
// the two transcripts cannot interleave differently.
func (s *Sink) emit(console, log string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.console, console) //nolint:errcheck — best-effort
	io.WriteString(s.log, log)         //nolint:errcheck — best-effort
}

// paint wraps text in an ANSI color when the sink has color enabled.
func (s *Sink) paint(color, text string) string {
	if s.color {
		return color + text + colorReset
	}
	return text
}

// Printf writes the same formatted text to console and log.
func (s *Sink) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.emit(msg, msg)
}

// Println writes its arguments followed by a newline to console and log.
func (s *Sink) Println(args ...any) {
	msg := fmt.Sprintln(args...)
	s.emit(msg, msg)
}

// Headerf writes an announcement line (cyan on the console).
func (s *Sink) Headerf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...) + "\n"
	s.emit(s.paint(colorCyan, msg), msg)
}

// Successf writes a success line (green on the console).
func (s *Sink) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...) + "\n"
	s.emit(s.paint(colorGreen, msg), msg)
}

// Warnf writes a warning line (yellow on the console).
func (s *Sink) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...) + "\n"
	s.emit(s.paint(colorYellow, msg), msg)
}

// Failf writes a failure line (red on the console).
func (s *Sink) Failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...) + "\n"
	s.emit(s.paint(colorRed, msg), msg)
}

// ClearScreen wipes the terminal between menu iterations. Display-only: the
// escape sequence goes to the console and never to the log, and only when
// the console is a real terminal.
func (s *Sink) ClearScreen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if writerIsTTY(s.console) {
		io.WriteString(s.console, "\033[2J\033[H") //nolint:errcheck — best-effort
	}
}

// Close flushes and releases the log file handle.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	s.file.Sync() //nolint:errcheck — close reports the real failure
	err := s.file.Close()
	s.file = nil
	return err
}

package store

import "time"

// Session modes recorded in the journal.
const (
	ModeInteractive = "interactive"
	ModeAuto        = "auto"
)

// Session represents one aptmaint run: a single log file and process lifetime.
type Session struct {
	ID             string
	StartedAt      time.Time
	EndedAt        time.Time // zero while running or if the process died
	Mode           string    // ModeInteractive or ModeAuto
	LogPath        string
	OperationCount int // populated by ListSessions
}

// Operation records one completed package-manager invocation.
type Operation struct {
	ID        int64
	SessionID string
	Name      string
	Argument  string // verbatim user token for install/remove/search, else empty
	StartedAt time.Time
	Duration  time.Duration
	ExitCode  int
}

// Succeeded reports whether the external command exited cleanly.
func (o *Operation) Succeeded() bool {
	return o.ExitCode == 0
}

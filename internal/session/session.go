// Package session owns the per-run resources: the transcript sink, the
// history journal row, and the session identity. A Session is created after
// the privilege check passes and closed when the program exits.
package session

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"aptmaint/internal/config"
	"aptmaint/internal/output"
	"aptmaint/internal/store"
)

// Session is one run of aptmaint: one log file, one journal row, zero or
// more recorded operations.
type Session struct {
	ID        string
	Mode      string // store.ModeInteractive or store.ModeAuto
	StartedAt time.Time
	LogPath   string
	Sink      *output.Sink

	journal *store.Store
}

// New opens the session resources. The transcript sink is mandatory: if the
// log file cannot be created the session cannot start. The journal is
// best-effort observability: any failure opening or writing it produces one
// warning through the sink and the session carries on without history.
func New(cfg *config.Config, mode string) (*Session, error) {
	start := time.Now()
	logPath := cfg.LogPath(start)

	sink, err := output.Open(logPath)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		StartedAt: start,
		LogPath:   logPath,
		Sink:      sink,
	}
	s.journal = openJournal(cfg, sink, s)
	return s, nil
}

// openJournal opens the history database and records the session row.
// Returns nil when anything fails; the caller treats a nil journal as
// "history disabled for this run".
func openJournal(cfg *config.Config, sink *output.Sink, s *Session) *store.Store {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		sink.Warnf("History journal unavailable: %v", err)
		return nil
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		sink.Warnf("History journal unavailable: %v", err)
		return nil
	}

	if err := st.CreateSchema(); err != nil {
		sink.Warnf("History journal unavailable: %v", err)
		st.Close() //nolint:errcheck — best-effort
		return nil
	}

	if err := st.InsertSession(&store.Session{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		Mode:      s.Mode,
		LogPath:   s.LogPath,
	}); err != nil {
		sink.Warnf("History journal unavailable: %v", err)
		st.Close() //nolint:errcheck — best-effort
		return nil
	}

	return st
}

// RecordOperation journals one completed operation. Best-effort: on the
// first write failure it warns once and disables the journal for the rest
// of the session.
func (s *Session) RecordOperation(name, argument string, startedAt time.Time, duration time.Duration, exitCode int) {
	if s.journal == nil {
		return
	}

	err := s.journal.InsertOperation(&store.Operation{
		SessionID: s.ID,
		Name:      name,
		Argument:  argument,
		StartedAt: startedAt,
		Duration:  duration,
		ExitCode:  exitCode,
	})
	if err != nil {
		s.Sink.Warnf("History journal disabled: %v", err)
		s.journal.Close() //nolint:errcheck — best-effort
		s.journal = nil
	}
}

// Close stamps the session's end time in the journal and releases the log
// file. Safe to call once at program exit.
func (s *Session) Close() error {
	if s.journal != nil {
		s.journal.EndSession(s.ID, time.Now()) //nolint:errcheck — best-effort
		s.journal.Close()                      //nolint:errcheck — best-effort
		s.journal = nil
	}
	return s.Sink.Close()
}

package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aptmaint/internal/config"
	"aptmaint/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LogDir:   filepath.Join(dir, "log"),
		DBPath:   filepath.Join(dir, "db", "history.db"),
		AptGet:   "apt-get",
		AptCache: "apt-cache",
	}
}

func TestNew_CreatesLogFile(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg, store.ModeInteractive)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if s.ID == "" {
		t.Error("session ID is empty")
	}
	if !strings.HasPrefix(s.LogPath, cfg.LogDir) {
		t.Errorf("LogPath = %q, want under %q", s.LogPath, cfg.LogDir)
	}
	if _, err := os.Stat(s.LogPath); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestNew_FailsWhenLogDirUncreatable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	cfg := testConfig(t)
	cfg.LogDir = filepath.Join(blocker, "logs")

	if _, err := New(cfg, store.ModeInteractive); err == nil {
		t.Error("New() should fail when the log directory cannot be created")
	}
}

func TestNew_RecordsSessionRow(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg, store.ModeAuto)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	id := s.ID
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		t.Fatalf("failed to reopen journal: %v", err)
	}
	defer st.Close()

	sessions, err := st.ListSessions(10)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ListSessions() returned %d rows, want 1", len(sessions))
	}

	got := sessions[0]
	if got.ID != id {
		t.Errorf("ID = %s, want %s", got.ID, id)
	}
	if got.Mode != store.ModeAuto {
		t.Errorf("Mode = %s, want %s", got.Mode, store.ModeAuto)
	}
	if !strings.HasPrefix(got.LogPath, cfg.LogDir) {
		t.Errorf("LogPath = %q, want under %q", got.LogPath, cfg.LogDir)
	}
	if got.EndedAt.IsZero() {
		t.Error("EndedAt not stamped by Close()")
	}
}

func TestRecordOperation_Journaled(t *testing.T) {
	cfg := testConfig(t)

	s, err := New(cfg, store.ModeInteractive)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	startedAt := time.Now().UTC().Truncate(time.Second)
	s.RecordOperation("install", "vim", startedAt, 2300*time.Millisecond, 0)
	s.RecordOperation("remove", "nano", startedAt.Add(time.Minute), 500*time.Millisecond, 100)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		t.Fatalf("failed to reopen journal: %v", err)
	}
	defer st.Close()

	ops, err := st.ListSessionOperations(s.ID)
	if err != nil {
		t.Fatalf("ListSessionOperations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("journal holds %d operations, want 2", len(ops))
	}

	if ops[0].Name != "install" || ops[0].Argument != "vim" {
		t.Errorf("first operation = %s %q, want install \"vim\"", ops[0].Name, ops[0].Argument)
	}
	if ops[0].ExitCode != 0 || !ops[0].Succeeded() {
		t.Errorf("first operation exit = %d, want 0", ops[0].ExitCode)
	}
	if ops[1].ExitCode != 100 || ops[1].Succeeded() {
		t.Errorf("second operation exit = %d, want 100", ops[1].ExitCode)
	}
	if ops[0].Duration != 2300*time.Millisecond {
		t.Errorf("first operation duration = %v, want 2.3s", ops[0].Duration)
	}
}

func TestNew_JournalFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create blocker file: %v", err)
	}

	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(blocker, "history.db")

	s, err := New(cfg, store.ModeInteractive)
	if err != nil {
		t.Fatalf("New() error = %v, want journal failure to be non-fatal", err)
	}

	// Recording must be a no-op, not a panic.
	s.RecordOperation("update", "", time.Now(), time.Second, 0)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// The warning is part of the transcript.
	data, err := os.ReadFile(s.LogPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "History journal unavailable") {
		t.Errorf("log missing journal warning, got %q", string(data))
	}
}

func TestNew_SessionIDsAreUnique(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg, store.ModeInteractive)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	b, err := New(cfg, store.ModeInteractive)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	if a.ID == b.ID {
		t.Errorf("two sessions share ID %s", a.ID)
	}
}

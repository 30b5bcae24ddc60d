package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Session operations

// InsertSession records the start of a session.
func (s *Store) InsertSession(sess *Session) error {
	query := `
		INSERT INTO sessions (id, started_at, ended_at, mode, log_path)
		VALUES (?, ?, NULL, ?, ?)
	`

	_, err := s.db.Exec(query,
		sess.ID,
		sess.StartedAt.Format(time.RFC3339),
		sess.Mode,
		sess.LogPath,
	)
	if err != nil {
		return wrapQueryErr(fmt.Sprintf("failed to insert session %s", sess.ID), err)
	}

	return nil
}

// EndSession stamps the session's end time at clean exit.
func (s *Store) EndSession(id string, endedAt time.Time) error {
	query := `UPDATE sessions SET ended_at = ? WHERE id = ?`

	result, err := s.db.Exec(query, endedAt.Format(time.RFC3339), id)
	if err != nil {
		return wrapQueryErr(fmt.Sprintf("failed to end session %s", id), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	return nil
}

// ListSessions returns the most recent sessions, newest first, each with its
// operation count.
func (s *Store) ListSessions(limit int) ([]*Session, error) {
	query := `
		SELECT s.id, s.started_at, s.ended_at, s.mode, s.log_path, COUNT(o.id)
		FROM sessions s
		LEFT JOIN operations o ON o.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var startedAt string
		var endedAt sql.NullString

		err := rows.Scan(&sess.ID, &startedAt, &endedAt, &sess.Mode, &sess.LogPath, &sess.OperationCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}

		sess.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at for %s: %w", sess.ID, err)
		}

		if endedAt.Valid {
			sess.EndedAt, err = time.Parse(time.RFC3339, endedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse ended_at for %s: %w", sess.ID, err)
			}
		}

		sessions = append(sessions, &sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// CountSessions returns the total number of recorded sessions.
func (s *Store) CountSessions() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, wrapQueryErr("failed to count sessions", err)
	}
	return count, nil
}

// Operation operations

// InsertOperation records a completed package-manager invocation and fills
// in the generated row ID.
func (s *Store) InsertOperation(op *Operation) error {
	query := `
		INSERT INTO operations (session_id, name, argument, started_at, duration_ms, exit_code)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		op.SessionID,
		op.Name,
		op.Argument,
		op.StartedAt.Format(time.RFC3339),
		op.Duration.Milliseconds(),
		op.ExitCode,
	)
	if err != nil {
		return wrapQueryErr(fmt.Sprintf("failed to insert operation %s", op.Name), err)
	}

	op.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get operation id: %w", err)
	}

	return nil
}

// ListRecentOperations returns the most recent operations across all
// sessions, newest first.
func (s *Store) ListRecentOperations(limit int) ([]*Operation, error) {
	query := `
		SELECT id, session_id, name, argument, started_at, duration_ms, exit_code
		FROM operations
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to list operations", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var startedAt string
		var durationMs int64

		err := rows.Scan(&op.ID, &op.SessionID, &op.Name, &op.Argument, &startedAt, &durationMs, &op.ExitCode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}

		op.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at for operation %d: %w", op.ID, err)
		}

		op.Duration = time.Duration(durationMs) * time.Millisecond

		ops = append(ops, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return ops, nil
}

// ListSessionOperations returns all operations of one session in execution
// order.
func (s *Store) ListSessionOperations(sessionID string) ([]*Operation, error) {
	query := `
		SELECT id, session_id, name, argument, started_at, duration_ms, exit_code
		FROM operations
		WHERE session_id = ?
		ORDER BY started_at ASC, id ASC
	`

	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, wrapQueryErr(fmt.Sprintf("failed to list operations for session %s", sessionID), err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var startedAt string
		var durationMs int64

		err := rows.Scan(&op.ID, &op.SessionID, &op.Name, &op.Argument, &startedAt, &durationMs, &op.ExitCode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation row: %w", err)
		}

		op.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at for operation %d: %w", op.ID, err)
		}

		op.Duration = time.Duration(durationMs) * time.Millisecond

		ops = append(ops, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return ops, nil
}

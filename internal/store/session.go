package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SessionStatus is the outcome of a drawing session.
type SessionStatus string

const (
	// SessionActive marks a session whose pipeline is still running.
	SessionActive SessionStatus = "active"
	// SessionSaved marks a session whose drawing was written to disk.
	SessionSaved SessionStatus = "saved"
	// SessionFailed marks a session whose drawing could not be written.
	SessionFailed SessionStatus = "failed"
)

// Session is one run of the drawing pipeline.
type Session struct {
	ID         string
	StartedAt  time.Time
	EndedAt    *time.Time
	Width      int
	Height     int
	Ticks      int
	Strokes    int
	Clears     int
	OutputPath string
	Status     SessionStatus
	EndReason  string
}

// Summary holds the figures recorded when a session ends.
type Summary struct {
	Ticks      int
	Strokes    int
	Clears     int
	OutputPath string
	Status     SessionStatus
	EndReason  string
}

// SessionRepository provides operations on drawing sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new active session. StartedAt defaults to now.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}
	if sess.Status == "" {
		sess.Status = SessionActive
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, width, height, status)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Width, sess.Height, string(sess.Status),
	)
	return err
}

// Finish records the end of a session.
func (r *SessionRepository) Finish(id string, sum Summary) error {
	result, err := r.db.Exec(
		`UPDATE sessions
		 SET ended_at = ?, ticks = ?, strokes = ?, clears = ?, output_path = ?, status = ?, end_reason = ?
		 WHERE id = ?`,
		time.Now(), sum.Ticks, sum.Strokes, sum.Clears, sum.OutputPath, string(sum.Status), sum.EndReason, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

const sessionColumns = `id, started_at, ended_at, width, height, ticks, strokes, clears, output_path, status, end_reason`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime
	var status string

	err := row.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Width, &sess.Height,
		&sess.Ticks, &sess.Strokes, &sess.Clears, &sess.OutputPath, &status, &sess.EndReason)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	sess.Status = SessionStatus(status)
	return sess, nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess, err := scanSession(r.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and its events.
func (r *SessionRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM mode_events WHERE session_id = ?`, id); err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

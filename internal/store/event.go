package store

import (
	"database/sql"
	"time"
)

// ModeEvent records a single Idle/Drawing transition.
type ModeEvent struct {
	ID          int64
	SessionID   string
	Tick        int
	FromMode    string
	ToMode      string
	FingerCount int
	CreatedAt   time.Time
}

// EventRepository provides operations on mode events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the mode event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a mode event and fills in its ID.
func (r *EventRepository) Create(e *ModeEvent) error {
	e.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO mode_events (session_id, tick, from_mode, to_mode, finger_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Tick, e.FromMode, e.ToMode, e.FingerCount, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession retrieves the events of a session in tick order.
func (r *EventRepository) ListBySession(sessionID string) ([]*ModeEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, tick, from_mode, to_mode, finger_count, created_at
		 FROM mode_events
		 WHERE session_id = ?
		 ORDER BY tick, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*ModeEvent
	for rows.Next() {
		e := &ModeEvent{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Tick, &e.FromMode, &e.ToMode, &e.FingerCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

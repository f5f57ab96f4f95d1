package store

import (
	"database/sql"
	"time"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// Event is a grab or release recorded during a session.
type Event struct {
	ID         string
	SessionID  string
	Kind       string
	Hand       string
	ParticleID int
	Shape      string
	Position   [3]float64
	Velocity   [3]float64
	CreatedAt  time.Time
}

// Stats summarises a session's events.
type Stats struct {
	Grabs    int
	Releases int
	// ByHand counts grabs per hand name.
	ByHand map[string]int
}

// EventRepository provides operations on interaction events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts an event. CreatedAt is set when it is zero.
func (r *EventRepository) Record(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO interaction_events
		 (id, session_id, kind, hand, particle_id, shape, pos_x, pos_y, pos_z, vel_x, vel_y, vel_z, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Kind, e.Hand, e.ParticleID, e.Shape,
		e.Position[0], e.Position[1], e.Position[2],
		e.Velocity[0], e.Velocity[1], e.Velocity[2],
		e.CreatedAt,
	)
	return err
}

// List returns up to limit events of a session, newest first.
func (r *EventRepository) List(sessionID string, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, kind, hand, particle_id, shape,
		        pos_x, pos_y, pos_z, vel_x, vel_y, vel_z, created_at
		 FROM interaction_events WHERE session_id = ?
		 ORDER BY rowid DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(
			&e.ID, &e.SessionID, &e.Kind, &e.Hand, &e.ParticleID, &e.Shape,
			&e.Position[0], &e.Position[1], &e.Position[2],
			&e.Velocity[0], &e.Velocity[1], &e.Velocity[2],
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// Stats counts a session's grabs and releases.
func (r *EventRepository) Stats(sessionID string) (*Stats, error) {
	rows, err := r.db.Query(
		`SELECT kind, hand, COUNT(*) FROM interaction_events
		 WHERE session_id = ? GROUP BY kind, hand`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &Stats{ByHand: make(map[string]int)}
	for rows.Next() {
		var kind, hand string
		var n int
		if err := rows.Scan(&kind, &hand, &n); err != nil {
			return nil, err
		}
		switch kind {
		case "grab":
			stats.Grabs += n
			stats.ByHand[hand] += n
		case "release":
			stats.Releases += n
		}
	}

	return stats, rows.Err()
}

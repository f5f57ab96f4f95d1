package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the demo
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			particle_count INTEGER NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// Interaction events table - grab and release transitions
		`CREATE TABLE IF NOT EXISTS interaction_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK(kind IN ('grab', 'release')),
			hand TEXT NOT NULL CHECK(hand IN ('left', 'right')),
			particle_id INTEGER NOT NULL,
			shape TEXT NOT NULL,
			pos_x REAL NOT NULL,
			pos_y REAL NOT NULL,
			pos_z REAL NOT NULL,
			vel_x REAL NOT NULL,
			vel_y REAL NOT NULL,
			vel_z REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_interaction_events_session_id ON interaction_events(session_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

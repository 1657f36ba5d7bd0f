package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Snapshots table - diagnostic captures of one hand's landmarks
		// together with the count computed for it and the thresholds in
		// effect at capture time. The recorded thresholds describe the
		// capture; they are never read back into the live calibration.
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			handedness TEXT NOT NULL DEFAULT '' CHECK(handedness IN ('', 'Left', 'Right')),
			finger_count INTEGER NOT NULL,
			thumb_index_threshold REAL NOT NULL,
			index_middle_threshold REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Snapshot landmarks table - the 21 landmark positions per snapshot
		`CREATE TABLE IF NOT EXISTS snapshot_landmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			landmark_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		// Bindings table - plugin actions fired when a stable finger
		// count is observed. An empty handedness matches either hand.
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			finger_count INTEGER NOT NULL CHECK(finger_count BETWEEN 0 AND 5),
			handedness TEXT NOT NULL DEFAULT '',
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_snapshot_landmarks_snapshot_id ON snapshot_landmarks(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bindings_finger_count ON bindings(finger_count)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

package store

import (
	"database/sql"
	"errors"
	"time"
)

// Snapshot represents one captured hand: its landmarks, the count the
// heuristic produced, and the thresholds in effect when it was taken.
// Snapshots exist to inspect miscounts and to derive threshold
// suggestions from labeled poses.
type Snapshot struct {
	ID          string
	Label       string
	Handedness  string
	FingerCount int
	ThumbIndex  float64
	IndexMiddle float64
	CreatedAt   time.Time
}

// Landmark is one stored landmark position, ordered by Index.
type Landmark struct {
	Index int
	X     float64
	Y     float64
	Z     float64
}

// SnapshotRepository provides CRUD operations for snapshots.
type SnapshotRepository struct {
	db *sql.DB
}

// Snapshots returns the snapshot repository for this store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{db: s.db}
}

// Create inserts a snapshot and its landmarks in one transaction.
func (r *SnapshotRepository) Create(snap *Snapshot, landmarks []Landmark) error {
	snap.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO snapshots (id, label, handedness, finger_count, thumb_index_threshold, index_middle_threshold, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Label, snap.Handedness, snap.FingerCount, snap.ThumbIndex, snap.IndexMiddle, snap.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, l := range landmarks {
		_, err = tx.Exec(
			`INSERT INTO snapshot_landmarks (snapshot_id, landmark_index, x, y, z)
			 VALUES (?, ?, ?, ?, ?)`,
			snap.ID, l.Index, l.X, l.Y, l.Z,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a snapshot by its ID.
func (r *SnapshotRepository) GetByID(id string) (*Snapshot, error) {
	snap := &Snapshot{}

	err := r.db.QueryRow(
		`SELECT id, label, handedness, finger_count, thumb_index_threshold, index_middle_threshold, created_at
		 FROM snapshots WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.Label, &snap.Handedness, &snap.FingerCount, &snap.ThumbIndex, &snap.IndexMiddle, &snap.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return snap, nil
}

// GetLandmarks retrieves the landmark positions for a snapshot,
// ordered by landmark index.
func (r *SnapshotRepository) GetLandmarks(snapshotID string) ([]Landmark, error) {
	rows, err := r.db.Query(
		`SELECT landmark_index, x, y, z
		 FROM snapshot_landmarks WHERE snapshot_id = ? ORDER BY landmark_index`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []Landmark
	for rows.Next() {
		var l Landmark
		if err := rows.Scan(&l.Index, &l.X, &l.Y, &l.Z); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, l)
	}

	return landmarks, rows.Err()
}

// List retrieves all snapshots, newest first.
func (r *SnapshotRepository) List() ([]*Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, label, handedness, finger_count, thumb_index_threshold, index_middle_threshold, created_at
		 FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		err := rows.Scan(&snap.ID, &snap.Label, &snap.Handedness, &snap.FingerCount, &snap.ThumbIndex, &snap.IndexMiddle, &snap.CreatedAt)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

// ListByLabel retrieves all snapshots carrying the given label, newest first.
func (r *SnapshotRepository) ListByLabel(label string) ([]*Snapshot, error) {
	rows, err := r.db.Query(
		`SELECT id, label, handedness, finger_count, thumb_index_threshold, index_middle_threshold, created_at
		 FROM snapshots WHERE label = ? ORDER BY created_at DESC`,
		label,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snap := &Snapshot{}
		err := rows.Scan(&snap.ID, &snap.Label, &snap.Handedness, &snap.FingerCount, &snap.ThumbIndex, &snap.IndexMiddle, &snap.CreatedAt)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

// Delete removes a snapshot and, via cascade, its landmarks.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
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

package store

import (
	"database/sql"
	"errors"
	"time"
)

// Binding maps a stable finger count to a plugin action.
// Handedness narrows the match to one hand; empty matches either.
type Binding struct {
	ID          string
	FingerCount int
	Handedness  string
	PluginName  string
	ActionName  string
	Config      string
	Enabled     bool
	CreatedAt   time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding.
func (r *BindingRepository) Create(b *Binding) error {
	b.CreatedAt = time.Now()
	if b.Config == "" {
		b.Config = "{}"
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, finger_count, handedness, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.FingerCount, b.Handedness, b.PluginName, b.ActionName, b.Config, b.Enabled, b.CreatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b := &Binding{}

	err := r.db.QueryRow(
		`SELECT id, finger_count, handedness, plugin_name, action_name, config, enabled, created_at
		 FROM bindings WHERE id = ?`,
		id,
	).Scan(&b.ID, &b.FingerCount, &b.Handedness, &b.PluginName, &b.ActionName, &b.Config, &b.Enabled, &b.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return b, nil
}

// List retrieves all bindings ordered by finger count.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, finger_count, handedness, plugin_name, action_name, config, enabled, created_at
		 FROM bindings ORDER BY finger_count`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		err := rows.Scan(&b.ID, &b.FingerCount, &b.Handedness, &b.PluginName, &b.ActionName, &b.Config, &b.Enabled, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	return bindings, rows.Err()
}

// ListEnabledForCount retrieves the enabled bindings matching a finger
// count and handedness. A binding with empty handedness matches any hand.
func (r *BindingRepository) ListEnabledForCount(count int, handedness string) ([]*Binding, error) {
	rows, err := r.db.Query(
		`SELECT id, finger_count, handedness, plugin_name, action_name, config, enabled, created_at
		 FROM bindings
		 WHERE enabled = 1 AND finger_count = ? AND (handedness = '' OR handedness = ?)`,
		count, handedness,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		err := rows.Scan(&b.ID, &b.FingerCount, &b.Handedness, &b.PluginName, &b.ActionName, &b.Config, &b.Enabled, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	return bindings, rows.Err()
}

// SetEnabled flips a binding's enabled flag.
func (r *BindingRepository) SetEnabled(id string, enabled bool) error {
	result, err := r.db.Exec(`UPDATE bindings SET enabled = ? WHERE id = ?`, enabled, id)
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

// Delete removes a binding by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
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

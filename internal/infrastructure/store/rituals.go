package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/seancedev/seance/internal/domain"
	"github.com/seancedev/seance/internal/ports"
)

// ErrRitualExists reports a name collision on creation.
var ErrRitualExists = errors.New("ritual already exists")

// CreateRitual inserts the ritual row and all of its steps in a single
// transaction, so a crash can never leave an orphaned ritual without steps.
func (s *SQLiteStore) CreateRitual(name, description string, steps []string) error {
	if isBlank(name) {
		return errors.New("ritual must have a name")
	}
	if len(steps) == 0 {
		return errors.New("ritual must have at least one step")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return &domain.StorageError{Op: "create ritual", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO rituals (name, description, created_at) VALUES (?, ?, ?)`,
		name, description, time.Now().UTC().Format(timeLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrRitualExists
		}
		return &domain.StorageError{Op: "create ritual", Err: err}
	}
	ritualID, err := res.LastInsertId()
	if err != nil {
		return &domain.StorageError{Op: "create ritual", Err: err}
	}
	for i, cmd := range steps {
		if _, err := tx.Exec(`INSERT INTO ritual_steps (ritual_id, sequence_order, command) VALUES (?, ?, ?)`,
			ritualID, i, cmd); err != nil {
			return &domain.StorageError{Op: "create ritual step", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "create ritual", Err: err}
	}
	return nil
}

// Ritual loads a ritual and its ordered steps; nil when the name is unknown.
func (s *SQLiteStore) Ritual(name string) (*domain.Ritual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var r domain.Ritual
	err := s.db.QueryRow(`SELECT id, name, COALESCE(description, '') FROM rituals WHERE name = ?`, name).
		Scan(&r.ID, &r.Name, &r.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "load ritual", Err: err}
	}

	rows, err := s.db.Query(`SELECT sequence_order, command FROM ritual_steps
		WHERE ritual_id = ? ORDER BY sequence_order`, r.ID)
	if err != nil {
		return nil, &domain.StorageError{Op: "load ritual steps", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		step := domain.RitualStep{Status: domain.StepPending}
		if err := rows.Scan(&step.Order, &step.Command); err != nil {
			return nil, &domain.StorageError{Op: "scan ritual steps", Err: err}
		}
		r.Steps = append(r.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate ritual steps", Err: err}
	}
	return &r, nil
}

// ListRituals returns all rituals ordered by name, without steps.
func (s *SQLiteStore) ListRituals() ([]domain.Ritual, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT id, name, COALESCE(description, '') FROM rituals ORDER BY name`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list rituals", Err: err}
	}
	defer rows.Close()

	var rituals []domain.Ritual
	for rows.Next() {
		var r domain.Ritual
		if err := rows.Scan(&r.ID, &r.Name, &r.Description); err != nil {
			return nil, &domain.StorageError{Op: "scan rituals", Err: err}
		}
		rituals = append(rituals, r)
	}
	return rituals, rows.Err()
}

// DeleteRitual removes a ritual and, via cascade, its steps.
func (s *SQLiteStore) DeleteRitual(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The cascade FK needs foreign_keys on; delete steps explicitly so the
	// invariant does not depend on the pragma.
	tx, err := s.db.Begin()
	if err != nil {
		return false, &domain.StorageError{Op: "delete ritual", Err: err}
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`SELECT id FROM rituals WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "delete ritual", Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM ritual_steps WHERE ritual_id = ?`, id); err != nil {
		return false, &domain.StorageError{Op: "delete ritual steps", Err: err}
	}
	if _, err := tx.Exec(`DELETE FROM rituals WHERE id = ?`, id); err != nil {
		return false, &domain.StorageError{Op: "delete ritual", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return false, &domain.StorageError{Op: "delete ritual", Err: err}
	}
	return true, nil
}

var _ ports.RitualStore = (*SQLiteStore)(nil)

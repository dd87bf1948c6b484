package store

import (
	"github.com/google/uuid"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
)

// ListDefinitions returns the global registry of recurring task templates
func (s *Store) ListDefinitions() ([]models.TaskDefinition, error) {
	return listDefinitions(s.DB)
}

func listDefinitions(q querier) ([]models.TaskDefinition, error) {
	rows, err := q.Query(`
		SELECT id, title, default_time, created_at
		FROM task_definitions ORDER BY default_time, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []models.TaskDefinition
	for rows.Next() {
		var d models.TaskDefinition
		if err := rows.Scan(&d.ID, &d.Title, &d.DefaultTime, &d.CreatedAt); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// AddDefinition appends a new template to the registry. Titles are not
// de-duplicated.
func (s *Store) AddDefinition(title, defaultTime string) (*models.TaskDefinition, error) {
	defaultTime, err := schedule.NormalizeClock(defaultTime)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if _, err := s.Exec(`
		INSERT INTO task_definitions (id, title, default_time) VALUES (?, ?, ?)
	`, id, title, defaultTime); err != nil {
		return nil, err
	}

	d := &models.TaskDefinition{}
	err = s.QueryRow(`
		SELECT id, title, default_time, created_at FROM task_definitions WHERE id = ?
	`, id).Scan(&d.ID, &d.Title, &d.DefaultTime, &d.CreatedAt)
	return d, err
}

// SetDefaultTime overwrites a definition's scheduled time in place.
// Already-generated instances are not touched; definitions and
// instances are decoupled once instantiated. No-op on an unknown id.
func (s *Store) SetDefaultTime(defID, newTime string) error {
	newTime, err := schedule.NormalizeClock(newTime)
	if err != nil {
		return err
	}
	_, err = s.Exec(`
		UPDATE task_definitions SET default_time = ? WHERE id = ?
	`, newTime, defID)
	return err
}

// RemoveDefinition deletes a template from the registry. Instances
// generated from it keep living on their profiles; the schema nulls
// their back-reference.
func (s *Store) RemoveDefinition(defID string) error {
	_, err := s.Exec("DELETE FROM task_definitions WHERE id = ?", defID)
	return err
}

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jk-Krishna/cronos-app/internal/models"
)

// AddAdmin registers a new administrator credential. Admin ids live in
// their own namespace, independent of groups.
func (s *Store) AddAdmin(id, password string) (*models.Admin, error) {
	var exists int
	if err := s.QueryRow("SELECT COUNT(*) FROM admins WHERE id = ?", id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, fmt.Errorf("admin %q: %w", id, ErrConflict)
	}

	if _, err := s.Exec("INSERT INTO admins (id, password) VALUES (?, ?)", id, password); err != nil {
		return nil, err
	}

	a := &models.Admin{}
	err := s.QueryRow(`
		SELECT id, password, created_at FROM admins WHERE id = ?
	`, id).Scan(&a.ID, &a.Password, &a.CreatedAt)
	return a, err
}

// ValidateAdmin checks admin credentials. Like ValidateGroup, the error
// does not distinguish an unknown id from a wrong password.
func (s *Store) ValidateAdmin(id, password string) (*models.Admin, error) {
	a := &models.Admin{}
	err := s.QueryRow(`
		SELECT id, password, created_at FROM admins WHERE id = ?
	`, id).Scan(&a.ID, &a.Password, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if a.Password != password {
		return nil, fmt.Errorf("admin %q: %w", id, ErrNotFound)
	}
	return a, nil
}

// ResetAdminPassword overwrites an admin's password, validated only by id
func (s *Store) ResetAdminPassword(id, newPassword string) error {
	res, err := s.Exec("UPDATE admins SET password = ? WHERE id = ?", newPassword, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("admin %q: %w", id, ErrNotFound)
	}
	return nil
}

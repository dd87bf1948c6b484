package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Jk-Krishna/cronos-app/internal/models"
)

// CreateGroup registers a new group with one seeded profile. The group
// id doubles as the login id and must be unique.
func (s *Store) CreateGroup(id, password, initialProfileName string) (*models.UserGroup, error) {
	var exists int
	err := s.QueryRow("SELECT COUNT(*) FROM user_groups WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, fmt.Errorf("group %q: %w", id, ErrConflict)
	}

	// Group, profile and seeded instances land together or not at all
	tx, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO user_groups (id, password) VALUES (?, ?)
	`, id, password); err != nil {
		return nil, err
	}
	if _, err := insertProfile(tx, id, initialProfileName); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.FindGroup(id)
}

// FindGroup retrieves a group by id with its profiles populated
func (s *Store) FindGroup(id string) (*models.UserGroup, error) {
	g := &models.UserGroup{}
	err := s.QueryRow(`
		SELECT id, password, created_at FROM user_groups WHERE id = ?
	`, id).Scan(&g.ID, &g.Password, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	profiles, err := s.listProfiles(id)
	if err != nil {
		return nil, err
	}
	g.Profiles = profiles
	return g, nil
}

// ListGroups returns all groups with their profiles populated
func (s *Store) ListGroups() ([]models.UserGroup, error) {
	rows, err := s.Query(`
		SELECT id, password, created_at FROM user_groups ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.UserGroup
	for rows.Next() {
		var g models.UserGroup
		if err := rows.Scan(&g.ID, &g.Password, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		profiles, err := s.listProfiles(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Profiles = profiles
	}
	return groups, nil
}

// ValidateGroup checks login credentials. The error never says whether
// the id was unknown or the password wrong.
func (s *Store) ValidateGroup(id, password string) (*models.UserGroup, error) {
	g, err := s.FindGroup(id)
	if err != nil {
		return nil, err
	}
	if g.Password != password {
		return nil, fmt.Errorf("group %q: %w", id, ErrNotFound)
	}
	return g, nil
}

// ResetGroupPassword overwrites a group's password, validated only by
// id. Recovery flow; no secondary verification exists.
func (s *Store) ResetGroupPassword(id, newPassword string) error {
	res, err := s.Exec("UPDATE user_groups SET password = ? WHERE id = ?", newPassword, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("group %q: %w", id, ErrNotFound)
	}
	return nil
}

// AddProfile appends a named profile to a group and seeds it with
// today's instances generated from the current registry
func (s *Store) AddProfile(groupID, name string) (*models.UserProfile, error) {
	var exists int
	if err := s.QueryRow("SELECT COUNT(*) FROM user_groups WHERE id = ?", groupID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("group %q: %w", groupID, ErrNotFound)
	}

	tx, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := insertProfile(tx, groupID, name)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetProfile(id)
}

// insertProfile creates a profile row and seeds today's instances from
// the registry, all on the caller's transaction
func insertProfile(q querier, groupID, name string) (string, error) {
	id := uuid.NewString()
	if _, err := q.Exec(`
		INSERT INTO profiles (id, group_id, name, avatar) VALUES (?, ?, ?, ?)
	`, id, groupID, name, avatarFor(name)); err != nil {
		return "", err
	}
	if err := seedDailyInstances(q, id, today()); err != nil {
		return "", err
	}
	return id, nil
}

// GetProfile retrieves a profile by id without its tasks
func (s *Store) GetProfile(id string) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := s.QueryRow(`
		SELECT id, group_id, name, avatar, created_at FROM profiles WHERE id = ?
	`, id).Scan(&p.ID, &p.GroupID, &p.Name, &p.Avatar, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveProfile deletes a profile and, via the schema's cascade, every
// task instance it owns. No-op if the profile is absent or belongs to
// another group. A group may be left with zero profiles.
func (s *Store) RemoveProfile(groupID, profileID string) error {
	_, err := s.Exec(`
		DELETE FROM profiles WHERE id = ? AND group_id = ?
	`, profileID, groupID)
	return err
}

func (s *Store) listProfiles(groupID string) ([]models.UserProfile, error) {
	rows, err := s.Query(`
		SELECT id, group_id, name, avatar, created_at
		FROM profiles WHERE group_id = ? ORDER BY created_at
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.ID, &p.GroupID, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// avatarFor derives a stable avatar reference from a profile name
func avatarFor(name string) string {
	return "https://i.pravatar.cc/150?u=" + name
}

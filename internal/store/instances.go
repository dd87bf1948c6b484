package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
)

func today() string {
	return time.Now().Format(schedule.DateFormat)
}

// SeedDailyInstances generates one PENDING instance per registry
// definition for the given profile and date. Instances copy the
// definition's title and time and keep a back-reference, but later
// edits to the definition do not reach them.
func (s *Store) SeedDailyInstances(profileID, date string) error {
	return seedDailyInstances(s.DB, profileID, date)
}

func seedDailyInstances(q querier, profileID, date string) error {
	defs, err := listDefinitions(q)
	if err != nil {
		return err
	}

	for _, d := range defs {
		if _, err := q.Exec(`
			INSERT INTO task_instances (id, profile_id, def_id, title, description, time, date, status, is_default)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		`, uuid.NewString(), profileID, d.ID, d.Title, "Default Task", d.DefaultTime, date, models.StatusPending); err != nil {
			return err
		}
	}
	return nil
}

// AddAdHocInstance appends a one-off PENDING task dated today. Ad hoc
// tasks never count as registry-originated, no matter who adds them.
func (s *Store) AddAdHocInstance(profileID, title, clock, description string) (*models.TaskInstance, error) {
	clock, err := schedule.NormalizeClock(clock)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetProfile(profileID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if _, err := s.Exec(`
		INSERT INTO task_instances (id, profile_id, title, description, time, date, status, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, id, profileID, title, description, clock, today(), models.StatusPending); err != nil {
		return nil, err
	}

	return s.getInstance(profileID, id)
}

// RemoveInstance deletes a task from a profile's collection. No-op if
// absent.
func (s *Store) RemoveInstance(profileID, taskID string) error {
	_, err := s.Exec(`
		DELETE FROM task_instances WHERE id = ? AND profile_id = ?
	`, taskID, profileID)
	return err
}

// TransitionStatus moves a task to a new lifecycle state. Completed and
// missed are terminal; completing records completedAt when the caller
// supplies one.
func (s *Store) TransitionStatus(profileID, taskID string, newStatus models.Status, completedAt *time.Time) error {
	inst, err := s.getInstance(profileID, taskID)
	if err != nil {
		return err
	}

	if !schedule.CanTransition(inst.Status, newStatus) {
		return fmt.Errorf("%s -> %s: %w", inst.Status, newStatus, ErrInvalidTransition)
	}

	if newStatus == models.StatusCompleted && completedAt != nil {
		_, err = s.Exec(`
			UPDATE task_instances SET status = ?, completed_at = ? WHERE id = ?
		`, newStatus, completedAt, taskID)
	} else {
		_, err = s.Exec(`
			UPDATE task_instances SET status = ? WHERE id = ?
		`, newStatus, taskID)
	}
	return err
}

// SnoozeInstance shifts a pending task's time forward by step. The
// instance keeps its date; a shift that would land on the next day is
// rejected with ErrInvalidTimeShift and leaves the task untouched.
// There is no limit on repeated snoozes short of the midnight guard.
func (s *Store) SnoozeInstance(profileID, taskID string, step time.Duration) (string, error) {
	inst, err := s.getInstance(profileID, taskID)
	if err != nil {
		return "", err
	}

	if inst.Status != models.StatusPending {
		return "", fmt.Errorf("%s task: %w", inst.Status, ErrInvalidTransition)
	}

	newTime, err := schedule.Shift(inst.Time, step)
	if err != nil {
		return "", err
	}

	if _, err := s.Exec(`
		UPDATE task_instances SET time = ? WHERE id = ?
	`, newTime, taskID); err != nil {
		return "", err
	}
	return newTime, nil
}

// TasksForDay returns a profile's instances for one date, sorted by time
func (s *Store) TasksForDay(profileID, date string) ([]models.TaskInstance, error) {
	rows, err := s.Query(`
		SELECT id, profile_id, def_id, title, description, time, date, status, is_default, completed_at, created_at
		FROM task_instances
		WHERE profile_id = ? AND date = ?
		ORDER BY time, created_at
	`, profileID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstances(rows)
}

// DailyStats counts one date's instances by status for a profile
func (s *Store) DailyStats(profileID, date string) (models.DayStats, error) {
	stats := models.DayStats{Date: date}
	err := s.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'COMPLETED'), 0),
			COALESCE(SUM(status = 'MISSED'), 0)
		FROM task_instances
		WHERE profile_id = ? AND date = ?
	`, profileID, date).Scan(&stats.Total, &stats.Completed, &stats.Missed)
	return stats, err
}

// History aggregates persisted instances into per-day stats for the
// given number of days ending the day before `until`. Days without
// instances appear with zero counts so charts keep a continuous axis.
func (s *Store) History(profileID string, days int, until time.Time) ([]models.DayStats, error) {
	history := make([]models.DayStats, 0, days)
	for i := days; i > 0; i-- {
		date := until.AddDate(0, 0, -i).Format(schedule.DateFormat)
		stats, err := s.DailyStats(profileID, date)
		if err != nil {
			return nil, err
		}
		history = append(history, stats)
	}
	return history, nil
}

func (s *Store) getInstance(profileID, taskID string) (*models.TaskInstance, error) {
	row := s.QueryRow(`
		SELECT id, profile_id, def_id, title, description, time, date, status, is_default, completed_at, created_at
		FROM task_instances
		WHERE id = ? AND profile_id = ?
	`, taskID, profileID)

	inst := &models.TaskInstance{}
	err := row.Scan(&inst.ID, &inst.ProfileID, &inst.DefID, &inst.Title, &inst.Description,
		&inst.Time, &inst.Date, &inst.Status, &inst.IsDefault, &inst.CompletedAt, &inst.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %q: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func scanInstances(rows *sql.Rows) ([]models.TaskInstance, error) {
	var instances []models.TaskInstance
	for rows.Next() {
		var inst models.TaskInstance
		if err := rows.Scan(&inst.ID, &inst.ProfileID, &inst.DefID, &inst.Title, &inst.Description,
			&inst.Time, &inst.Date, &inst.Status, &inst.IsDefault, &inst.CompletedAt, &inst.CreatedAt); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

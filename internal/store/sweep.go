package store

import (
	"time"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
)

// SweepOverdue persists MISSED for every pending instance whose
// scheduled time has fully elapsed: anything dated before now's day,
// plus today's instances past the grace window. Returns the number of
// instances transitioned. Reads of "late" in the views stay a derived
// projection; this sweep is the only writer of MISSED.
func (s *Store) SweepOverdue(now time.Time, grace time.Duration) (int, error) {
	date := now.Format(schedule.DateFormat)

	cutoffMins := now.Hour()*60 + now.Minute() - int(grace.Minutes())
	cutoff := "00:00"
	if cutoffMins > 0 {
		cutoff = schedule.FormatClock(cutoffMins/60, cutoffMins%60)
	}

	// Zero-padded HH:MM compares correctly as text
	res, err := s.Exec(`
		UPDATE task_instances SET status = ?
		WHERE status = ? AND (date < ? OR (date = ? AND time < ?))
	`, models.StatusMissed, models.StatusPending, date, date, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// RolloverDay seeds the given date's instances from the live registry
// for every profile that has none yet. Safe to call repeatedly; the
// sweeper invokes it on its tick so profiles pick up a fresh schedule
// after midnight without any client involvement.
func (s *Store) RolloverDay(date string) (int, error) {
	rows, err := s.Query(`
		SELECT id FROM profiles
		WHERE id NOT IN (SELECT DISTINCT profile_id FROM task_instances WHERE date = ?)
	`, date)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		stale = append(stale, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range stale {
		if err := s.SeedDailyInstances(id, date); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

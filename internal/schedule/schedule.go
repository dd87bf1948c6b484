// Package schedule holds the pure time and status logic for task
// instances: clock-of-day parsing, the snooze shift with its midnight
// guard, the read-only "late" projection, and daily aggregation.
// Nothing in this package touches storage.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/Jk-Krishna/cronos-app/internal/models"
)

// ErrPastMidnight is returned when a time shift would roll the
// time-of-day into the next calendar day
var ErrPastMidnight = errors.New("shift would cross midnight")

// DateFormat is the wire/storage format for calendar dates
const DateFormat = "2006-01-02"

// ParseClock parses an HH:MM 24h time-of-day string
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatClock renders hour and minute as HH:MM
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// NormalizeClock parses a time-of-day and re-renders it zero-padded.
// Stored times must be padded: the text sort order and the sweep
// cutoff comparison both depend on it, so every write path goes
// through here.
func NormalizeClock(s string) (string, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(h, m), nil
}

// minuteOfDay converts HH:MM to minutes since midnight
func minuteOfDay(s string) (int, error) {
	h, m, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// Shift advances an HH:MM time-of-day by step. If the result would land
// on the next day the shift is rejected with ErrPastMidnight and the
// original time should be kept unchanged by the caller.
func Shift(clock string, step time.Duration) (string, error) {
	mins, err := minuteOfDay(clock)
	if err != nil {
		return "", err
	}
	shifted := mins + int(step.Minutes())
	if shifted >= 24*60 {
		return "", ErrPastMidnight
	}
	return FormatClock(shifted/60, shifted%60), nil
}

// IsLate reports whether a still-pending instance has blown past its
// scheduled time by more than the grace window. Completed and missed
// instances are never late, nor are instances scheduled for a date
// other than now's.
func IsLate(inst models.TaskInstance, now time.Time, grace time.Duration) bool {
	if inst.Status != models.StatusPending {
		return false
	}
	if inst.Date != now.Format(DateFormat) {
		return false
	}
	mins, err := minuteOfDay(inst.Time)
	if err != nil {
		return false
	}
	nowMins := now.Hour()*60 + now.Minute()
	return nowMins-mins > int(grace.Minutes())
}

// Overdue reports whether a pending instance should be swept to MISSED:
// either its date has passed entirely, or it is late on its own day.
func Overdue(inst models.TaskInstance, now time.Time, grace time.Duration) bool {
	if inst.Status != models.StatusPending {
		return false
	}
	if inst.Date < now.Format(DateFormat) {
		return true
	}
	return IsLate(inst, now, grace)
}

// Summarize counts one date's instances by status
func Summarize(instances []models.TaskInstance, date string) models.DayStats {
	stats := models.DayStats{Date: date}
	for _, inst := range instances {
		if inst.Date != date {
			continue
		}
		stats.Total++
		switch inst.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusMissed:
			stats.Missed++
		}
	}
	return stats
}

// CanTransition reports whether a status change is allowed. PENDING may
// move to COMPLETED or MISSED; both of those are terminal.
func CanTransition(from, to models.Status) bool {
	if from.Terminal() {
		return false
	}
	return to == models.StatusCompleted || to == models.StatusMissed
}

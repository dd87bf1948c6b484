package store

import (
	"errors"

	"github.com/Jk-Krishna/cronos-app/internal/schedule"
)

var (
	// ErrNotFound means a group, admin, profile, definition or task id
	// did not resolve. Credential validation also returns it on a wrong
	// password so callers cannot distinguish the two cases.
	ErrNotFound = errors.New("not found")

	// ErrConflict means an id is already taken
	ErrConflict = errors.New("already exists")

	// ErrInvalidTransition means the requested status change is not
	// allowed by the lifecycle (completed and missed are terminal)
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidTimeShift means a snooze would cross midnight
	ErrInvalidTimeShift = schedule.ErrPastMidnight
)

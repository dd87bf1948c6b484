package models

import "time"

// Status is the lifecycle state of a task instance
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusMissed    Status = "MISSED"
)

// Terminal reports whether a status permits no further transitions
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusMissed
}

// TaskDefinition is a recurring task template in the global registry.
// Definitions are admin-curated; instances generated from them keep a
// back-reference but are decoupled once created.
type TaskDefinition struct {
	ID          string
	Title       string
	DefaultTime string // HH:MM, 24h
	CreatedAt   time.Time
}

// TaskInstance is one concrete, dated occurrence of a task for one profile
type TaskInstance struct {
	ID          string
	ProfileID   string
	DefID       *string // nil for ad hoc tasks
	Title       string
	Description string
	Time        string // HH:MM, 24h
	Date        string // YYYY-MM-DD
	Status      Status
	IsDefault   bool // true only when generated from the registry
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// UserProfile is a named actor owning a collection of task instances
type UserProfile struct {
	ID        string
	GroupID   string
	Name      string
	Avatar    string
	CreatedAt time.Time
	Tasks     []TaskInstance // populated when loading a profile's day
}

// UserGroup is the login/tenancy boundary holding one or more profiles
type UserGroup struct {
	ID        string
	Password  string
	CreatedAt time.Time
	Profiles  []UserProfile
}

// Admin is a system-wide credential record, independent of groups
type Admin struct {
	ID        string
	Password  string
	CreatedAt time.Time
}

// DayStats aggregates one profile's instances for one date
type DayStats struct {
	Date      string
	Completed int
	Missed    int
	Total     int
}

// Pending is the remainder after completed and missed are counted
func (d DayStats) Pending() int {
	return d.Total - d.Completed - d.Missed
}

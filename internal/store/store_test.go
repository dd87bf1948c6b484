package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cronos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateGroupUniqueness(t *testing.T) {
	s := newTestStore(t)

	first, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	require.Len(t, first.Profiles, 1)

	_, err = s.CreateGroup("family123", "other", "Mallory")
	assert.ErrorIs(t, err, ErrConflict)

	// The existing group is untouched
	g, err := s.FindGroup("family123")
	require.NoError(t, err)
	assert.Equal(t, "secret", g.Password)
	assert.Len(t, g.Profiles, 1)
	assert.Equal(t, "Felix", g.Profiles[0].Name)
}

func TestValidateGroup(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)

	g, err := s.ValidateGroup("family123", "secret")
	require.NoError(t, err)
	assert.Equal(t, "family123", g.ID)

	// Wrong password and unknown id fail identically
	_, badPass := s.ValidateGroup("family123", "wrong")
	_, badID := s.ValidateGroup("nobody", "secret")
	assert.ErrorIs(t, badPass, ErrNotFound)
	assert.ErrorIs(t, badID, ErrNotFound)
}

func TestResetGroupPassword(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)

	require.NoError(t, s.ResetGroupPassword("family123", "newkey"))
	_, err = s.ValidateGroup("family123", "newkey")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.ResetGroupPassword("nobody", "x"), ErrNotFound)
}

func TestAddProfileSeedsRegistry(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)
	_, err = s.AddDefinition("Drink Water", "11:00")
	require.NoError(t, err)

	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)

	tasks, err := s.TasksForDay(g.Profiles[0].ID, today())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, models.StatusPending, task.Status)
		assert.True(t, task.IsDefault)
		assert.NotNil(t, task.DefID)
		assert.Equal(t, today(), task.Date)
	}
	// Sorted by time
	assert.Equal(t, "Morning Medication", tasks[0].Title)
	assert.Equal(t, "Drink Water", tasks[1].Title)
}

func TestSetDefaultTimeDoesNotTouchInstances(t *testing.T) {
	s := newTestStore(t)

	def, err := s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)

	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	require.NoError(t, s.SetDefaultTime(def.ID, "09:15"))

	defs, err := s.ListDefinitions()
	require.NoError(t, err)
	assert.Equal(t, "09:15", defs[0].DefaultTime)

	tasks, err := s.TasksForDay(profileID, today())
	require.NoError(t, err)
	assert.Equal(t, "08:00", tasks[0].Time, "existing instances stay decoupled")

	// Unknown id is a silent no-op
	assert.NoError(t, s.SetDefaultTime("missing", "10:00"))
}

func TestAdHocInstanceIsCustom(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	task, err := s.AddAdHocInstance(profileID, "Stretch", "15:00", "Custom Task")
	require.NoError(t, err)
	assert.False(t, task.IsDefault)
	assert.Nil(t, task.DefID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, today(), task.Date)

	_, err = s.AddAdHocInstance(profileID, "Bad", "25:99", "")
	assert.Error(t, err)

	_, err = s.AddAdHocInstance("missing", "Stretch", "15:00", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClockInputsAreNormalized(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	morning, err := s.AddAdHocInstance(profileID, "Morning Stretch", "9:00", "Custom Task")
	require.NoError(t, err)
	assert.Equal(t, "09:00", morning.Time)

	_, err = s.AddAdHocInstance(profileID, "Afternoon Walk", "15:00", "Custom Task")
	require.NoError(t, err)

	// Padded text sorts chronologically
	tasks, err := s.TasksForDay(profileID, today())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Morning Stretch", tasks[0].Title)
	assert.Equal(t, "Afternoon Walk", tasks[1].Title)

	// And the sweep cutoff comparison matches it
	now := time.Now()
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	n, err := s.SweepOverdue(noon, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	inst, err := s.getInstance(profileID, morning.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMissed, inst.Status)

	// Registry writes are padded too
	def, err := s.AddDefinition("Lunch", "9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", def.DefaultTime)

	require.NoError(t, s.SetDefaultTime(def.ID, "7:30"))
	defs, err := s.ListDefinitions()
	require.NoError(t, err)
	assert.Equal(t, "07:30", defs[0].DefaultTime)
}

func TestCreateGroupIsAtomic(t *testing.T) {
	s := newTestStore(t)

	// Make the profile insert fail after the group insert succeeds
	_, err := s.Exec(`
		CREATE TRIGGER block_profiles BEFORE INSERT ON profiles
		BEGIN SELECT RAISE(ABORT, 'blocked'); END
	`)
	require.NoError(t, err)

	_, err = s.CreateGroup("family123", "secret", "Felix")
	require.Error(t, err)

	var n int
	require.NoError(t, s.QueryRow("SELECT COUNT(*) FROM user_groups").Scan(&n))
	assert.Zero(t, n, "a failed creation must not leave a profile-less group")
}

func TestStatusTerminality(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	task, err := s.AddAdHocInstance(profileID, "Stretch", "15:00", "")
	require.NoError(t, err)

	completedAt := time.Date(2026, 8, 29, 15, 5, 0, 0, time.UTC)
	require.NoError(t, s.TransitionStatus(profileID, task.ID, models.StatusCompleted, &completedAt))

	got, err := s.getInstance(profileID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(completedAt))

	// No way back out of a terminal state
	err = s.TransitionStatus(profileID, task.ID, models.StatusPending, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	err = s.TransitionStatus(profileID, task.ID, models.StatusMissed, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.SnoozeInstance(profileID, task.ID, 30*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSnooze(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	task, err := s.AddAdHocInstance(profileID, "Stretch", "09:00", "")
	require.NoError(t, err)

	newTime, err := s.SnoozeInstance(profileID, task.ID, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "09:30", newTime)

	newTime, err = s.SnoozeInstance(profileID, task.ID, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "10:00", newTime)

	late, err := s.AddAdHocInstance(profileID, "Night cap", "23:45", "")
	require.NoError(t, err)

	_, err = s.SnoozeInstance(profileID, late.ID, 30*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidTimeShift)

	got, err := s.getInstance(profileID, late.ID)
	require.NoError(t, err)
	assert.Equal(t, "23:45", got.Time, "rejected snooze leaves the time unchanged")
}

func TestDailyStats(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	a, err := s.AddAdHocInstance(profileID, "A", "08:00", "")
	require.NoError(t, err)
	_, err = s.AddAdHocInstance(profileID, "B", "09:00", "")
	require.NoError(t, err)
	c, err := s.AddAdHocInstance(profileID, "C", "10:00", "")
	require.NoError(t, err)

	require.NoError(t, s.TransitionStatus(profileID, a.ID, models.StatusCompleted, nil))
	require.NoError(t, s.TransitionStatus(profileID, c.ID, models.StatusMissed, nil))

	stats, err := s.DailyStats(profileID, today())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Missed)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending())
}

func TestRemoveProfileCascades(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)

	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	require.NoError(t, s.RemoveProfile("family123", profileID))

	g, err = s.FindGroup("family123")
	require.NoError(t, err)
	assert.Empty(t, g.Profiles, "a group may be left with zero profiles")

	var orphans int
	require.NoError(t, s.QueryRow(
		"SELECT COUNT(*) FROM task_instances WHERE profile_id = ?", profileID,
	).Scan(&orphans))
	assert.Zero(t, orphans, "no dangling instances remain")

	// Absent profile or wrong group is a no-op
	assert.NoError(t, s.RemoveProfile("family123", "missing"))
}

func TestRemoveDefinitionKeepsInstances(t *testing.T) {
	s := newTestStore(t)

	def, err := s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	require.NoError(t, s.RemoveDefinition(def.ID))

	defs, err := s.ListDefinitions()
	require.NoError(t, err)
	assert.Empty(t, defs)

	tasks, err := s.TasksForDay(profileID, today())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].DefID, "back-reference is nulled, instance survives")
}

func TestSweepOverdue(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	seed := func(clock, date string, status models.Status) string {
		id := "t-" + date + "-" + clock
		_, err := s.Exec(`
			INSERT INTO task_instances (id, profile_id, title, time, date, status)
			VALUES (?, ?, 'x', ?, ?, ?)
		`, id, profileID, clock, date, status)
		require.NoError(t, err)
		return id
	}

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	lateToday := seed("10:30", "2026-08-29", models.StatusPending)
	withinGrace := seed("11:30", "2026-08-29", models.StatusPending)
	upcoming := seed("15:00", "2026-08-29", models.StatusPending)
	staleYesterday := seed("23:00", "2026-08-28", models.StatusPending)
	doneYesterday := seed("08:00", "2026-08-28", models.StatusCompleted)

	n, err := s.SweepOverdue(now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	status := func(id string) models.Status {
		inst, err := s.getInstance(profileID, id)
		require.NoError(t, err)
		return inst.Status
	}
	assert.Equal(t, models.StatusMissed, status(lateToday))
	assert.Equal(t, models.StatusMissed, status(staleYesterday))
	assert.Equal(t, models.StatusPending, status(withinGrace))
	assert.Equal(t, models.StatusPending, status(upcoming))
	assert.Equal(t, models.StatusCompleted, status(doneYesterday))
}

func TestRolloverDay(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	tomorrow := time.Now().AddDate(0, 0, 1).Format(schedule.DateFormat)

	n, err := s.RolloverDay(tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tasks, err := s.TasksForDay(profileID, tomorrow)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusPending, tasks[0].Status)

	// Idempotent on a day that is already seeded
	n, err = s.RolloverDay(tomorrow)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryAggregatesRealInstances(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1).Format(schedule.DateFormat)
	_, err = s.Exec(`
		INSERT INTO task_instances (id, profile_id, title, time, date, status)
		VALUES ('h1', ?, 'x', '08:00', ?, 'COMPLETED'), ('h2', ?, 'y', '09:00', ?, 'MISSED')
	`, profileID, yesterday, profileID, yesterday)
	require.NoError(t, err)

	history, err := s.History(profileID, 7, now)
	require.NoError(t, err)
	require.Len(t, history, 7)

	last := history[6]
	assert.Equal(t, yesterday, last.Date)
	assert.Equal(t, 1, last.Completed)
	assert.Equal(t, 1, last.Missed)
	assert.Equal(t, 2, last.Total)

	// Empty days keep the axis continuous
	assert.Zero(t, history[0].Total)
}

// Registry -> group -> completion -> stats, end to end
func TestFullScenario(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddDefinition("Morning Medicine", "08:00")
	require.NoError(t, err)

	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	felix := g.Profiles[0]

	tasks, err := s.TasksForDay(felix.ID, today())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Morning Medicine", tasks[0].Title)
	assert.Equal(t, "08:00", tasks[0].Time)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
	assert.True(t, tasks[0].IsDefault)

	at := time.Date(2026, 8, 29, 8, 10, 0, 0, time.UTC)
	require.NoError(t, s.TransitionStatus(felix.ID, tasks[0].ID, models.StatusCompleted, &at))

	tasks, err = s.TasksForDay(felix.ID, today())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, tasks[0].Status)
	require.NotNil(t, tasks[0].CompletedAt)
	assert.True(t, tasks[0].CompletedAt.Equal(at))

	stats, err := s.DailyStats(felix.ID, today())
	require.NoError(t, err)
	assert.Equal(t, models.DayStats{Date: today(), Completed: 1, Missed: 0, Total: 1}, stats)
}

func TestAdmins(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddAdmin("admin", "admin")
	require.NoError(t, err)

	_, err = s.AddAdmin("admin", "other")
	assert.ErrorIs(t, err, ErrConflict)

	a, err := s.ValidateAdmin("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", a.ID)

	_, badPass := s.ValidateAdmin("admin", "nope")
	_, badID := s.ValidateAdmin("root", "admin")
	assert.ErrorIs(t, badPass, ErrNotFound)
	assert.ErrorIs(t, badID, ErrNotFound)

	require.NoError(t, s.ResetAdminPassword("admin", "better"))
	_, err = s.ValidateAdmin("admin", "better")
	assert.NoError(t, err)
	assert.ErrorIs(t, s.ResetAdminPassword("root", "x"), ErrNotFound)
}

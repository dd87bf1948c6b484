package sweep

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
	"github.com/Jk-Krishna/cronos-app/internal/store"
)

func TestTickCatchesUpAfterRestart(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "cronos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.AddDefinition("Morning Medication", "08:00")
	require.NoError(t, err)
	g, err := s.CreateGroup("family123", "secret", "Felix")
	require.NoError(t, err)
	profileID := g.Profiles[0].ID

	// Rewrite the profile's seeded schedule to look like yesterday's,
	// as if the process had been down across midnight
	yesterday := time.Now().AddDate(0, 0, -1).Format(schedule.DateFormat)
	_, err = s.Exec("UPDATE task_instances SET date = ? WHERE profile_id = ?", yesterday, profileID)
	require.NoError(t, err)

	sw := New(s, time.Minute, time.Hour, zap.NewNop())
	sw.tick()

	stats, err := s.DailyStats(profileID, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Missed, "prior-day pending swept to missed")

	tasks, err := s.TasksForDay(profileID, time.Now().Format(schedule.DateFormat))
	require.NoError(t, err)
	require.Len(t, tasks, 1, "today's schedule regenerated from the registry")
	assert.Equal(t, models.StatusPending, tasks[0].Status)
}

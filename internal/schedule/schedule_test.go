package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jk-Krishna/cronos-app/internal/models"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)

	_, _, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestNormalizeClock(t *testing.T) {
	// Parsing tolerates unpadded input; the stored form never does
	got, err := NormalizeClock("9:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", got)

	got, err = NormalizeClock("23:05")
	require.NoError(t, err)
	assert.Equal(t, "23:05", got)

	_, err = NormalizeClock("9am")
	assert.Error(t, err)
}

func TestShift(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		step    time.Duration
		want    string
		wantErr error
	}{
		{name: "simple", clock: "09:00", step: 30 * time.Minute, want: "09:30"},
		{name: "hour carry", clock: "09:45", step: 30 * time.Minute, want: "10:15"},
		{name: "lands on midnight", clock: "23:30", step: 30 * time.Minute, wantErr: ErrPastMidnight},
		{name: "crosses midnight", clock: "23:45", step: 30 * time.Minute, wantErr: ErrPastMidnight},
		{name: "last valid slot", clock: "23:29", step: 30 * time.Minute, want: "23:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shift(tt.clock, tt.step)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftRepeated(t *testing.T) {
	// Snoozing twice from 09:00 lands on 10:00
	clock := "09:00"
	for i := 0; i < 2; i++ {
		var err error
		clock, err = Shift(clock, 30*time.Minute)
		require.NoError(t, err)
	}
	assert.Equal(t, "10:00", clock)
}

func TestIsLate(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	grace := time.Hour

	pending := func(date, clock string) models.TaskInstance {
		return models.TaskInstance{Time: clock, Date: date, Status: models.StatusPending}
	}

	assert.True(t, IsLate(pending("2026-08-29", "10:30"), now, grace))
	assert.False(t, IsLate(pending("2026-08-29", "11:00"), now, grace), "exactly at grace boundary")
	assert.False(t, IsLate(pending("2026-08-29", "11:30"), now, grace))
	assert.False(t, IsLate(pending("2026-08-29", "13:00"), now, grace))

	// Other dates never read as late on today's clock
	assert.False(t, IsLate(pending("2026-08-28", "10:30"), now, grace))

	done := models.TaskInstance{Time: "08:00", Date: "2026-08-29", Status: models.StatusCompleted}
	assert.False(t, IsLate(done, now, grace))
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	grace := time.Hour

	yesterday := models.TaskInstance{Time: "23:00", Date: "2026-08-28", Status: models.StatusPending}
	assert.True(t, Overdue(yesterday, now, grace))

	today := models.TaskInstance{Time: "10:00", Date: "2026-08-29", Status: models.StatusPending}
	assert.True(t, Overdue(today, now, grace))

	upcoming := models.TaskInstance{Time: "15:00", Date: "2026-08-29", Status: models.StatusPending}
	assert.False(t, Overdue(upcoming, now, grace))

	completedYesterday := models.TaskInstance{Time: "23:00", Date: "2026-08-28", Status: models.StatusCompleted}
	assert.False(t, Overdue(completedYesterday, now, grace))
}

func TestSummarize(t *testing.T) {
	instances := []models.TaskInstance{
		{Date: "2026-08-29", Status: models.StatusCompleted},
		{Date: "2026-08-29", Status: models.StatusPending},
		{Date: "2026-08-29", Status: models.StatusMissed},
		{Date: "2026-08-28", Status: models.StatusCompleted}, // other day, ignored
	}

	stats := Summarize(instances, "2026-08-29")
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Missed)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusPending, models.StatusCompleted))
	assert.True(t, CanTransition(models.StatusPending, models.StatusMissed))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusPending))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusMissed))
	assert.False(t, CanTransition(models.StatusMissed, models.StatusPending))
	assert.False(t, CanTransition(models.StatusPending, models.StatusPending))
}

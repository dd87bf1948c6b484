package views

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/Jk-Krishna/cronos-app/internal/models"
)

func TestStoreErrorsSurfaceInStatusLine(t *testing.T) {
	boom := errors.New("boom")

	tasks := NewTaskListView(nil, &models.UserGroup{}, models.UserProfile{}, time.Hour, 30*time.Minute)
	tasks.Update(boom)
	assert.Equal(t, "boom", tasks.status)

	admin := NewAdminView(nil)
	admin.Update(boom)
	assert.Equal(t, "boom", admin.status)

	analytics := NewAnalyticsView(nil, models.UserProfile{}, 7)
	analytics.Update(boom)
	assert.Equal(t, "boom", analytics.status)

	profiles := NewProfileSelectView(nil, &models.UserGroup{ID: "family123"})
	profiles.Update(boom)
	assert.Equal(t, "boom", profiles.errMsg)
}

func TestAddFormFocusCycling(t *testing.T) {
	v := NewTaskListView(nil, &models.UserGroup{}, models.UserProfile{}, time.Hour, 30*time.Minute)
	v.adding = true
	assert.Equal(t, 0, v.addFocusIdx)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, v.addFocusIdx)

	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, v.addFocusIdx)
}

func TestAdminFormFocusCyclesBothWays(t *testing.T) {
	v := NewAdminView(nil)
	v.openForm(formNewGroup)
	assert.Equal(t, 0, v.focusIdx)

	// shift+tab wraps backward over the three fields
	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, v.focusIdx)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, v.focusIdx)

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, v.focusIdx)
}

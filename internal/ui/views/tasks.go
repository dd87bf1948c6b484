package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
	"github.com/Jk-Krishna/cronos-app/internal/store"
	"github.com/Jk-Krishna/cronos-app/internal/ui/keys"
	"github.com/Jk-Krishna/cronos-app/internal/ui/styles"
)

// refreshEvery is the cadence of the clock/late-projection refresh.
// Purely presentational; the sweeper owns persisted status changes.
const refreshEvery = 10 * time.Second

// BackToProfiles signals a return to the profile chooser
type BackToProfiles struct{}

// TaskListView is the day schedule for one profile, with a compare
// mode charting every profile in the group for a chosen date
type TaskListView struct {
	store   *store.Store
	group   *models.UserGroup
	profile models.UserProfile
	tasks   []models.TaskInstance
	styles  *styles.Styles
	keys    keys.KeyMap

	grace      time.Duration
	snoozeStep time.Duration

	now    time.Time
	cursor int
	status string // one-line feedback (snooze rejection etc.)

	// Ad hoc task creation
	adding       bool
	addTitle     textinput.Model
	addTime      textinput.Model
	addFocusIdx  int // 0=title, 1=time
	compareMode  bool
	compareDate  string
	compareStats map[string]models.DayStats // profile id -> stats

	width  int
	height int
}

// NewTaskListView creates the schedule view for a profile
func NewTaskListView(s *store.Store, group *models.UserGroup, profile models.UserProfile, grace, snoozeStep time.Duration) *TaskListView {
	addTitle := textinput.New()
	addTitle.Placeholder = "Task Title"
	addTitle.CharLimit = 100

	addTime := textinput.New()
	addTime.Placeholder = "HH:MM"
	addTime.CharLimit = 5

	return &TaskListView{
		store:       s,
		group:       group,
		profile:     profile,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		grace:       grace,
		snoozeStep:  snoozeStep,
		now:         time.Now(),
		compareDate: time.Now().Format(schedule.DateFormat),
		addTitle:    addTitle,
		addTime:     addTime,
	}
}

func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.tick())
}

type tasksLoadedMsg struct {
	tasks []models.TaskInstance
}

type compareLoadedMsg struct {
	stats map[string]models.DayStats
}

type clockTickMsg time.Time

func (v *TaskListView) tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.store.TasksForDay(v.profile.ID, time.Now().Format(schedule.DateFormat))
	if err != nil {
		return err
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadCompare() tea.Msg {
	stats := make(map[string]models.DayStats, len(v.group.Profiles))
	for _, p := range v.group.Profiles {
		s, err := v.store.DailyStats(p.ID, v.compareDate)
		if err != nil {
			return err
		}
		stats[p.ID] = s
	}
	return compareLoadedMsg{stats: stats}
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if len(v.tasks) > 0 {
			v.cursor = clamp(v.cursor, 0, len(v.tasks)-1)
		} else {
			v.cursor = 0
		}
		return v, nil

	case compareLoadedMsg:
		v.compareStats = msg.stats
		return v, nil

	case error:
		v.status = msg.Error()
		return v, nil

	case clockTickMsg:
		v.now = time.Time(msg)
		// Reload so sweeper-persisted changes show up
		return v, tea.Batch(v.loadTasks, v.tick())

	case tea.KeyMsg:
		v.status = ""

		if v.adding {
			return v.updateAdding(msg)
		}
		if v.compareMode {
			return v.updateCompare(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProfiles{} }

		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil

		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.tasks)-1 {
				v.cursor++
			}
			return v, nil

		case key.Matches(msg, v.keys.New):
			v.adding = true
			v.addFocusIdx = 0
			v.addTitle.Reset()
			v.addTime.Reset()
			v.addTitle.Focus()
			v.addTime.Blur()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Complete):
			return v, v.completeSelected()

		case key.Matches(msg, v.keys.Snooze):
			return v, v.snoozeSelected()

		case key.Matches(msg, v.keys.Compare):
			v.compareMode = true
			v.compareDate = time.Now().Format(schedule.DateFormat)
			return v, v.loadCompare
		}
	}

	return v, nil
}

func (v *TaskListView) completeSelected() tea.Cmd {
	if len(v.tasks) == 0 {
		return nil
	}
	task := v.tasks[v.cursor]
	if task.Status != models.StatusPending {
		v.status = "Task is already " + strings.ToLower(string(task.Status))
		return nil
	}
	now := time.Now()
	if err := v.store.TransitionStatus(v.profile.ID, task.ID, models.StatusCompleted, &now); err != nil {
		v.status = err.Error()
		return nil
	}
	return v.loadTasks
}

func (v *TaskListView) snoozeSelected() tea.Cmd {
	if len(v.tasks) == 0 {
		return nil
	}
	task := v.tasks[v.cursor]
	newTime, err := v.store.SnoozeInstance(v.profile.ID, task.ID, v.snoozeStep)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidTimeShift):
			v.status = "Cannot snooze past midnight"
		case errors.Is(err, store.ErrInvalidTransition):
			v.status = "Only pending tasks can be snoozed"
		default:
			v.status = err.Error()
		}
		return nil
	}
	v.status = "Snoozed to " + newTime
	return v.loadTasks
}

func (v *TaskListView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleAddFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleAddFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.addFocusIdx == 0 {
			v.addFocusIdx = 1
			v.addTitle.Blur()
			v.addTime.Focus()
			return v, nil
		}
		title := strings.TrimSpace(v.addTitle.Value())
		clock := strings.TrimSpace(v.addTime.Value())
		if title == "" || clock == "" {
			v.status = "Title and time are required"
			return v, nil
		}
		if _, err := v.store.AddAdHocInstance(v.profile.ID, title, clock, "Custom Task"); err != nil {
			v.status = err.Error()
			return v, nil
		}
		v.adding = false
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	if v.addFocusIdx == 0 {
		v.addTitle, cmd = v.addTitle.Update(msg)
	} else {
		v.addTime, cmd = v.addTime.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) cycleAddFocus(delta int) {
	v.addFocusIdx = (v.addFocusIdx + delta + 2) % 2
	v.addTitle.Blur()
	v.addTime.Blur()
	if v.addFocusIdx == 0 {
		v.addTitle.Focus()
	} else {
		v.addTime.Focus()
	}
}

func (v *TaskListView) updateCompare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Compare):
		v.compareMode = false
		return v, nil

	case key.Matches(msg, v.keys.Left):
		d, _ := time.Parse(schedule.DateFormat, v.compareDate)
		v.compareDate = d.AddDate(0, 0, -1).Format(schedule.DateFormat)
		return v, v.loadCompare

	case key.Matches(msg, v.keys.Right):
		d, _ := time.Parse(schedule.DateFormat, v.compareDate)
		if next := d.AddDate(0, 0, 1); !next.After(time.Now()) {
			v.compareDate = next.Format(schedule.DateFormat)
			return v, v.loadCompare
		}
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) View() string {
	if v.adding {
		return v.renderAddForm()
	}
	if v.compareMode {
		return v.renderCompare()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render(v.profile.Name+"'s Schedule"),
		s.TitleMuted.Render("  "+v.now.Format("15:04")),
	)

	summary := schedule.Summarize(v.tasks, v.now.Format(schedule.DateFormat))

	var rows []string
	rows = append(rows, header,
		s.TitleMuted.Render(fmt.Sprintf("%d done · %d missed · %d pending",
			summary.Completed, summary.Missed, summary.Pending())),
		"")

	if len(v.tasks) == 0 {
		rows = append(rows, s.TitleMuted.Render("No tasks for today."))
	}

	for i, task := range v.tasks {
		rows = append(rows, v.renderTaskRow(task, i == v.cursor, contentWidth))
	}

	if v.status != "" {
		rows = append(rows, "", s.StatusBar.Render(v.status))
	}
	rows = append(rows, v.renderHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskListView) renderTaskRow(task models.TaskInstance, selected bool, width int) string {
	s := v.styles

	badge := s.TimeBadge.Render(task.Time)
	if task.Status == models.StatusCompleted {
		badge = s.TimeBadgeDone.Render(task.Time)
	}

	origin := "Custom Task"
	if task.IsDefault {
		origin = "Default Task"
	}

	var status string
	switch {
	case task.Status == models.StatusCompleted:
		status = s.StatusDone.Render("✓ Done")
	case task.Status == models.StatusMissed:
		status = s.StatusMissed.Render("Missed")
	case schedule.IsLate(task, v.now, v.grace):
		status = s.StatusLate.Render("Late")
	default:
		status = s.StatusPending.Render("Pending")
	}

	title := task.Title
	if task.Status == models.StatusCompleted {
		title = s.TitleMuted.Render(title)
	}

	line := fmt.Sprintf("%s  %s %s  %s", badge, title, s.TitleMuted.Render("("+origin+")"), status)
	if selected {
		return s.ListSelected.Width(max(width-4, 20)).Render(line)
	}
	return s.ListItem.Render(line)
}

func (v *TaskListView) renderAddForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	titleStyle, timeStyle := s.InputFocused, s.Input
	if v.addFocusIdx == 1 {
		titleStyle, timeStyle = s.Input, s.InputFocused
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add Task"),
		"",
		titleStyle.Width(inputWidth).Render(v.addTitle.View()),
		timeStyle.Width(12).Render(v.addTime.View()),
		"",
		s.TitleMuted.Render("Tab: next • ↵ save • esc cancel"),
	)

	if v.status != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, form, "", s.ErrorBox.Render(v.status))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderCompare() string {
	s := v.styles
	t := styles.Current
	contentWidth := styles.ContentWidth(v.width)

	chartHeight := clamp(v.height-10, 6, 16)
	bc := barchart.New(contentWidth-4, chartHeight)

	completedStyle := lipgloss.NewStyle().Foreground(t.Success)
	pendingStyle := lipgloss.NewStyle().Foreground(t.Border)
	missedStyle := lipgloss.NewStyle().Foreground(t.Error)

	for _, p := range v.group.Profiles {
		stats := v.compareStats[p.ID]
		bc.Push(barchart.BarData{
			Label: p.Name,
			Values: []barchart.BarValue{
				{Name: "Completed", Value: float64(stats.Completed), Style: completedStyle},
				{Name: "Pending", Value: float64(stats.Pending()), Style: pendingStyle},
				{Name: "Missed", Value: float64(stats.Missed), Style: missedStyle},
			},
		})
	}
	bc.Draw()

	legend := lipgloss.JoinHorizontal(lipgloss.Center,
		completedStyle.Render("■ Completed  "),
		pendingStyle.Render("■ Pending  "),
		missedStyle.Render("■ Missed"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Daily Comparison"),
		s.TitleMuted.Render(v.compareDate),
		"",
		bc.View(),
		"",
		legend,
		s.Help.Render(
			s.HelpKey.Render("←/→")+" change day • "+
				s.HelpKey.Render("esc")+" back",
		),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		s.HelpKey.Render("c") + " done • " +
			s.HelpKey.Render("z") + " snooze • " +
			s.HelpKey.Render("n") + " add • " +
			s.HelpKey.Render("v") + " compare • " +
			s.HelpKey.Render("esc") + " profiles • " +
			s.HelpKey.Render("q") + " quit",
	)
}

package views

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/schedule"
	"github.com/Jk-Krishna/cronos-app/internal/store"
	"github.com/Jk-Krishna/cronos-app/internal/ui/keys"
	"github.com/Jk-Krishna/cronos-app/internal/ui/styles"
)

// BackToAdmin signals a return to the admin console
type BackToAdmin struct{}

// AnalyticsView shows one profile's completion history alongside the
// full task list for a selectable day
type AnalyticsView struct {
	store   *store.Store
	styles  *styles.Styles
	keys    keys.KeyMap
	profile models.UserProfile

	historyDays int
	history     []models.DayStats // oldest first, last entry is the selected window's newest day
	dayIdx      int               // index into history, the selected day
	dayTasks    []models.TaskInstance
	taskCursor  int

	status string
	width  int
	height int
}

// NewAnalyticsView creates the history view for one profile
func NewAnalyticsView(s *store.Store, profile models.UserProfile, historyDays int) *AnalyticsView {
	return &AnalyticsView{
		store:       s,
		styles:      styles.NewStyles(),
		keys:        keys.DefaultKeyMap(),
		profile:     profile,
		historyDays: historyDays,
	}
}

func (v *AnalyticsView) Init() tea.Cmd {
	return v.loadHistory
}

type historyLoadedMsg struct {
	history []models.DayStats
}

type dayTasksMsg struct {
	tasks []models.TaskInstance
}

func (v *AnalyticsView) loadHistory() tea.Msg {
	now := time.Now()
	history, err := v.store.History(v.profile.ID, v.historyDays, now)
	if err != nil {
		return err
	}
	today, err := v.store.DailyStats(v.profile.ID, now.Format(schedule.DateFormat))
	if err != nil {
		return err
	}
	history = append(history, today)
	return historyLoadedMsg{history: history}
}

func (v *AnalyticsView) loadDayTasks() tea.Msg {
	if len(v.history) == 0 {
		return dayTasksMsg{}
	}
	tasks, err := v.store.TasksForDay(v.profile.ID, v.history[v.dayIdx].Date)
	if err != nil {
		return err
	}
	return dayTasksMsg{tasks: tasks}
}

func (v *AnalyticsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case historyLoadedMsg:
		v.history = msg.history
		v.dayIdx = len(v.history) - 1 // land on today
		return v, v.loadDayTasks

	case error:
		v.status = msg.Error()
		return v, nil

	case dayTasksMsg:
		v.dayTasks = msg.tasks
		if len(v.dayTasks) > 0 {
			v.taskCursor = clamp(v.taskCursor, 0, len(v.dayTasks)-1)
		} else {
			v.taskCursor = 0
		}
		return v, nil

	case tea.KeyMsg:
		v.status = ""

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToAdmin{} }

		case key.Matches(msg, v.keys.Left):
			if v.dayIdx > 0 {
				v.dayIdx--
				v.taskCursor = 0
				return v, v.loadDayTasks
			}

		case key.Matches(msg, v.keys.Right):
			if v.dayIdx < len(v.history)-1 {
				v.dayIdx++
				v.taskCursor = 0
				return v, v.loadDayTasks
			}

		case key.Matches(msg, v.keys.Up):
			if v.taskCursor > 0 {
				v.taskCursor--
			}

		case key.Matches(msg, v.keys.Down):
			if v.taskCursor < len(v.dayTasks)-1 {
				v.taskCursor++
			}

		case key.Matches(msg, v.keys.Delete):
			if len(v.dayTasks) > 0 {
				task := v.dayTasks[v.taskCursor]
				if err := v.store.RemoveInstance(v.profile.ID, task.ID); err != nil {
					v.status = err.Error()
					return v, nil
				}
				v.status = "Removed " + task.Title
				return v, tea.Batch(v.loadDayTasks, v.loadHistory)
			}
		}
	}

	return v, nil
}

func (v *AnalyticsView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	header := s.Title.Render(v.profile.Name + " · History")

	var body []string
	body = append(body, header, "")

	if len(v.history) == 0 {
		body = append(body, s.TitleMuted.Render("Loading history..."))
	} else {
		body = append(body,
			v.renderHistoryChart(contentWidth),
			"",
			v.renderSparkline(contentWidth),
			"",
			v.renderSelectedDay(contentWidth),
		)
	}

	if v.status != "" {
		body = append(body, "", s.StatusBar.Render(v.status))
	}
	body = append(body, v.renderHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, body...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *AnalyticsView) renderHistoryChart(width int) string {
	t := styles.Current

	chartHeight := clamp(v.height/3, 5, 10)
	bc := barchart.New(width-4, chartHeight)

	completedStyle := lipgloss.NewStyle().Foreground(t.Success)
	missedStyle := lipgloss.NewStyle().Foreground(t.Error)
	selectedStyle := lipgloss.NewStyle().Foreground(t.Primary)

	for i, day := range v.history {
		cs := completedStyle
		if i == v.dayIdx {
			cs = selectedStyle
		}
		// MM-DD keeps the axis compact
		label := day.Date
		if len(label) == len(schedule.DateFormat) {
			label = label[5:]
		}
		bc.Push(barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "Completed", Value: float64(day.Completed), Style: cs},
				{Name: "Missed", Value: float64(day.Missed), Style: missedStyle},
			},
		})
	}
	bc.Draw()
	return bc.View()
}

func (v *AnalyticsView) renderSparkline(width int) string {
	s := v.styles
	t := styles.Current

	sl := sparkline.New(clamp(width-20, 10, 40), 1)
	for _, day := range v.history {
		rate := 0.0
		if day.Total > 0 {
			rate = float64(day.Completed) / float64(day.Total) * 100
		}
		sl.Push(rate)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.TitleMuted.Render("Completion rate  "),
		lipgloss.NewStyle().Foreground(t.Success).Render(sl.View()),
	)
}

func (v *AnalyticsView) renderSelectedDay(width int) string {
	s := v.styles
	day := v.history[v.dayIdx]

	summary := fmt.Sprintf("%s  —  %d done, %d missed, %d pending",
		day.Date, day.Completed, day.Missed, day.Pending())

	var lines []string
	lines = append(lines, s.TitleMuted.Render(summary))

	if len(v.dayTasks) == 0 {
		lines = append(lines, s.TitleMuted.Render("  No tasks recorded for this day."))
	}

	for i, task := range v.dayTasks {
		var status string
		switch task.Status {
		case models.StatusCompleted:
			status = s.StatusDone.Render("✓ Done")
		case models.StatusMissed:
			status = s.StatusMissed.Render("Missed")
		default:
			status = s.StatusPending.Render("Pending")
		}
		line := fmt.Sprintf("%s  %s  %s", s.TimeBadge.Render(task.Time), task.Title, status)
		if i == v.taskCursor {
			line = s.ListSelected.Width(max(width-4, 20)).Render(line)
		} else {
			line = s.ListItem.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *AnalyticsView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		s.HelpKey.Render("←/→") + " change day • " +
			s.HelpKey.Render("↑/↓") + " tasks • " +
			s.HelpKey.Render("d") + " remove task • " +
			s.HelpKey.Render("esc") + " back",
	)
}

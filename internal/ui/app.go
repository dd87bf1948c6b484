package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jk-Krishna/cronos-app/internal/config"
	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/store"
	"github.com/Jk-Krishna/cronos-app/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewProfiles
	ViewTasks
	ViewAdmin
	ViewAnalytics
)

type App struct {
	store       *store.Store
	cfg         *config.Config
	currentView View

	group *models.UserGroup
	admin *models.Admin

	login     *views.LoginView
	profiles  *views.ProfileSelectView
	taskList  *views.TaskListView
	adminView *views.AdminView
	analytics *views.AnalyticsView

	width  int
	height int
}

// Creates a new application
func NewApp(s *store.Store, cfg *config.Config) *App {
	return &App{
		store:       s,
		cfg:         cfg,
		currentView: ViewLogin,
		login:       views.NewLoginView(s),
	}
}

func (a *App) Init() tea.Cmd {
	return a.login.Init()
}

// resize replays the current window size into a freshly created view
func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openProfiles() tea.Cmd {
	a.currentView = ViewProfiles
	a.profiles = views.NewProfileSelectView(a.store, a.group)
	return tea.Batch(a.profiles.Init(), a.resize())
}

func (a *App) openTasks(profile models.UserProfile) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.store, a.group, profile, a.cfg.GracePeriod, a.cfg.SnoozeStep)
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) openAdmin() tea.Cmd {
	a.currentView = ViewAdmin
	a.adminView = views.NewAdminView(a.store)
	return tea.Batch(a.adminView.Init(), a.resize())
}

func (a *App) openAnalytics(profile models.UserProfile) tea.Cmd {
	a.currentView = ViewAnalytics
	a.analytics = views.NewAnalyticsView(a.store, profile, a.cfg.HistoryDays)
	return tea.Batch(a.analytics.Init(), a.resize())
}

func (a *App) openLogin() tea.Cmd {
	a.currentView = ViewLogin
	a.group = nil
	a.admin = nil
	a.login = views.NewLoginView(a.store)
	return tea.Batch(a.login.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.LoggedIn:
		a.group = msg.Group
		return a, a.openProfiles()

	case views.AdminLoggedIn:
		a.admin = msg.Admin
		return a, a.openAdmin()

	case views.SelectedProfile:
		return a, a.openTasks(msg.Profile)

	case views.BackToProfiles:
		return a, a.openProfiles()

	case views.OpenAnalytics:
		return a, a.openAnalytics(msg.Profile)

	case views.BackToAdmin:
		return a, a.openAdmin()

	case views.LoggedOut:
		return a, a.openLogin()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewProfiles:
		_, cmd = a.profiles.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewAdmin:
		_, cmd = a.adminView.Update(msg)
	case ViewAnalytics:
		_, cmd = a.analytics.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewProfiles:
		if a.profiles != nil {
			return a.profiles.View()
		}
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewAdmin:
		if a.adminView != nil {
			return a.adminView.View()
		}
	case ViewAnalytics:
		if a.analytics != nil {
			return a.analytics.View()
		}
	}
	return a.login.View()
}

package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jk-Krishna/cronos-app/internal/models"
	"github.com/Jk-Krishna/cronos-app/internal/store"
	"github.com/Jk-Krishna/cronos-app/internal/ui/keys"
	"github.com/Jk-Krishna/cronos-app/internal/ui/styles"
)

// SelectedProfile signals which profile the user chose to work as
type SelectedProfile struct {
	Profile models.UserProfile
}

// LoggedOut signals a return to the login screen
type LoggedOut struct{}

// ProfileSelectView is the "Who is working?" screen
type ProfileSelectView struct {
	store  *store.Store
	group  *models.UserGroup
	styles *styles.Styles
	keys   keys.KeyMap

	cursor  int
	adding  bool
	newName textinput.Model
	errMsg  string

	width  int
	height int
}

// NewProfileSelectView creates the profile chooser for a group
func NewProfileSelectView(s *store.Store, group *models.UserGroup) *ProfileSelectView {
	newName := textinput.New()
	newName.Placeholder = "Enter Name"
	newName.CharLimit = 40

	return &ProfileSelectView{
		store:   s,
		group:   group,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		newName: newName,
	}
}

func (v *ProfileSelectView) Init() tea.Cmd {
	return v.reload
}

type groupReloadedMsg struct {
	group *models.UserGroup
}

func (v *ProfileSelectView) reload() tea.Msg {
	group, err := v.store.FindGroup(v.group.ID)
	if err != nil {
		return err
	}
	return groupReloadedMsg{group: group}
}

func (v *ProfileSelectView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case groupReloadedMsg:
		v.group = msg.group
		v.cursor = clamp(v.cursor, 0, len(v.group.Profiles))
		return v, nil

	case error:
		v.errMsg = msg.Error()
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.updateAdding(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return LoggedOut{} }

		case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Up):
			// Last slot is the "add profile" tile
			v.cursor = (v.cursor + len(v.group.Profiles)) % (len(v.group.Profiles) + 1)
			return v, nil

		case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Down), key.Matches(msg, v.keys.Tab):
			v.cursor = (v.cursor + 1) % (len(v.group.Profiles) + 1)
			return v, nil

		case key.Matches(msg, v.keys.New):
			v.startAdding()
			return v, textinput.Blink

		case key.Matches(msg, v.keys.Enter):
			if v.cursor == len(v.group.Profiles) {
				v.startAdding()
				return v, textinput.Blink
			}
			profile := v.group.Profiles[v.cursor]
			return v, func() tea.Msg {
				return SelectedProfile{Profile: profile}
			}
		}
	}

	return v, nil
}

func (v *ProfileSelectView) startAdding() {
	v.adding = true
	v.errMsg = ""
	v.newName.Reset()
	v.newName.Focus()
}

func (v *ProfileSelectView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		name := strings.TrimSpace(v.newName.Value())
		if name == "" {
			v.errMsg = "Name is required"
			return v, nil
		}
		if _, err := v.store.AddProfile(v.group.ID, name); err != nil {
			v.errMsg = err.Error()
			return v, nil
		}
		v.adding = false
		return v, v.reload
	}

	var cmd tea.Cmd
	v.newName, cmd = v.newName.Update(msg)
	return v, cmd
}

func (v *ProfileSelectView) View() string {
	if v.adding {
		return v.renderAddForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var tiles []string
	for i, p := range v.group.Profiles {
		style := s.Button
		if i == v.cursor {
			style = s.ButtonFocused
		}
		tiles = append(tiles, style.Render(" "+p.Name+" "))
	}
	addStyle := s.Button.Foreground(styles.Current.ForegroundDim)
	if v.cursor == len(v.group.Profiles) {
		addStyle = s.ButtonFocused
	}
	tiles = append(tiles, addStyle.Render(" + Add Profile "))

	rows := []string{
		s.Title.Render("Who is working?"),
		s.TitleMuted.Render(v.group.ID),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, tiles...),
		"",
	}
	if v.errMsg != "" {
		rows = append(rows, s.ErrorBox.Render(v.errMsg), "")
	}
	rows = append(rows,
		s.Help.Render(
			s.HelpKey.Render("↵")+" select • "+
				s.HelpKey.Render("n")+" add profile • "+
				s.HelpKey.Render("esc")+" sign out",
		),
	)

	content := lipgloss.JoinVertical(lipgloss.Center, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProfileSelectView) renderAddForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	rows := []string{
		s.Title.Render("New User"),
		"",
		s.InputFocused.Width(inputWidth).Render(v.newName.View()),
	}
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBox.Width(inputWidth).Render(v.errMsg))
	}
	rows = append(rows, "",
		s.TitleMuted.Render("↵ create • esc cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Center, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

package views

import (
	"fmt"
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

// OpenAnalytics signals drilling into one profile's analytics
type OpenAnalytics struct {
	Profile models.UserProfile
}

type adminTab int

const (
	tabUsers adminTab = iota
	tabDefaults
)

type adminForm int

const (
	formNone adminForm = iota
	formAddProfile
	formNewGroup
	formNewDefinition
	formEditTime
	formAssignTask
)

// adminRow is one selectable line on the users tab: either a group
// header or a profile under it
type adminRow struct {
	group   *models.UserGroup
	profile *models.UserProfile // nil for group headers
}

// AdminView is the admin console: group/profile management on one tab,
// the global default-task registry on the other
type AdminView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	tab       adminTab
	groups    []models.UserGroup
	rows      []adminRow
	cursor    int
	defs      []models.TaskDefinition
	defCursor int

	form     adminForm
	formA    textinput.Model // first field of the active form
	formB    textinput.Model // second field
	formC    textinput.Model // third field (new group password)
	focusIdx int

	confirmingDelete bool
	deleteGroupID    string
	deleteProfileID  string
	deleteName       string

	status string
	width  int
	height int
}

// NewAdminView creates the admin console
func NewAdminView(s *store.Store) *AdminView {
	formA := textinput.New()
	formA.CharLimit = 100
	formB := textinput.New()
	formB.CharLimit = 100
	formC := textinput.New()
	formC.CharLimit = 100

	return &AdminView{
		store:  s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		formA:  formA,
		formB:  formB,
		formC:  formC,
	}
}

func (v *AdminView) Init() tea.Cmd {
	return v.reload
}

type adminDataMsg struct {
	groups []models.UserGroup
	defs   []models.TaskDefinition
}

func (v *AdminView) reload() tea.Msg {
	groups, err := v.store.ListGroups()
	if err != nil {
		return err
	}
	defs, err := v.store.ListDefinitions()
	if err != nil {
		return err
	}
	return adminDataMsg{groups: groups, defs: defs}
}

func (v *AdminView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case adminDataMsg:
		v.groups = msg.groups
		v.defs = msg.defs
		v.rebuildRows()
		return v, nil

	case error:
		v.status = msg.Error()
		return v, nil

	case tea.KeyMsg:
		v.status = ""

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.form != formNone {
			return v.updateForm(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return LoggedOut{} }

		case key.Matches(msg, v.keys.Tab):
			if v.tab == tabUsers {
				v.tab = tabDefaults
			} else {
				v.tab = tabUsers
			}
			return v, nil
		}

		if v.tab == tabUsers {
			return v.updateUsersTab(msg)
		}
		return v.updateDefaultsTab(msg)
	}

	return v, nil
}

func (v *AdminView) rebuildRows() {
	v.rows = v.rows[:0]
	for i := range v.groups {
		g := &v.groups[i]
		v.rows = append(v.rows, adminRow{group: g})
		for j := range g.Profiles {
			v.rows = append(v.rows, adminRow{group: g, profile: &g.Profiles[j]})
		}
	}
	if len(v.rows) > 0 {
		v.cursor = clamp(v.cursor, 0, len(v.rows)-1)
	} else {
		v.cursor = 0
	}
	if len(v.defs) > 0 {
		v.defCursor = clamp(v.defCursor, 0, len(v.defs)-1)
	} else {
		v.defCursor = 0
	}
}

func (v *AdminView) updateUsersTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}

	case key.Matches(msg, v.keys.New):
		// Add a profile to the group under the cursor
		if row := v.selectedRow(); row != nil {
			v.openForm(formAddProfile)
			v.formA.Placeholder = "Profile Name (adds to " + row.group.ID + ")"
			return v, textinput.Blink
		}

	case msg.String() == "g":
		v.openForm(formNewGroup)
		v.formA.Placeholder = "Group ID"
		v.formB.Placeholder = "Profile Name"
		v.formC.Placeholder = "Secret Key"
		return v, textinput.Blink

	case msg.String() == "t":
		// Assign a one-off task to the profile under the cursor
		if row := v.selectedRow(); row != nil && row.profile != nil {
			v.openForm(formAssignTask)
			v.formA.Placeholder = "Task Title (for " + row.profile.Name + ")"
			v.formB.Placeholder = "HH:MM"
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if row := v.selectedRow(); row != nil && row.profile != nil {
			v.confirmingDelete = true
			v.deleteGroupID = row.group.ID
			v.deleteProfileID = row.profile.ID
			v.deleteName = row.profile.Name
		}

	case key.Matches(msg, v.keys.Enter):
		if row := v.selectedRow(); row != nil && row.profile != nil {
			profile := *row.profile
			return v, func() tea.Msg { return OpenAnalytics{Profile: profile} }
		}
	}
	return v, nil
}

func (v *AdminView) updateDefaultsTab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.defCursor > 0 {
			v.defCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.defCursor < len(v.defs)-1 {
			v.defCursor++
		}

	case key.Matches(msg, v.keys.New):
		v.openForm(formNewDefinition)
		v.formA.Placeholder = "Task Title (e.g. Lunch)"
		v.formB.Placeholder = "HH:MM"
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(v.defs) > 0 {
			v.openForm(formEditTime)
			def := v.defs[v.defCursor]
			v.formA.Placeholder = "HH:MM (was " + def.DefaultTime + ")"
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if len(v.defs) > 0 {
			if err := v.store.RemoveDefinition(v.defs[v.defCursor].ID); err != nil {
				v.status = err.Error()
				return v, nil
			}
			return v, v.reload
		}
	}
	return v, nil
}

func (v *AdminView) selectedRow() *adminRow {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return &v.rows[v.cursor]
}

func (v *AdminView) openForm(f adminForm) {
	v.form = f
	v.focusIdx = 0
	v.formA.Reset()
	v.formB.Reset()
	v.formC.Reset()
	v.formA.Focus()
	v.formB.Blur()
	v.formC.Blur()
}

// formFieldCount is the number of inputs the active form uses
func (v *AdminView) formFieldCount() int {
	switch v.form {
	case formAddProfile, formEditTime:
		return 1
	case formNewGroup:
		return 3
	default:
		return 2
	}
}

func (v *AdminView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.form = formNone
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % v.formFieldCount()
		v.updateFormFocus()
		return v, nil

	case msg.String() == "shift+tab":
		n := v.formFieldCount()
		v.focusIdx = (v.focusIdx + n - 1) % n
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < v.formFieldCount()-1 {
			v.focusIdx++
			v.updateFormFocus()
			return v, nil
		}
		return v.submitForm()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.formA, cmd = v.formA.Update(msg)
	case 1:
		v.formB, cmd = v.formB.Update(msg)
	case 2:
		v.formC, cmd = v.formC.Update(msg)
	}
	return v, cmd
}

func (v *AdminView) updateFormFocus() {
	v.formA.Blur()
	v.formB.Blur()
	v.formC.Blur()
	switch v.focusIdx {
	case 0:
		v.formA.Focus()
	case 1:
		v.formB.Focus()
	case 2:
		v.formC.Focus()
	}
}

func (v *AdminView) submitForm() (tea.Model, tea.Cmd) {
	a := strings.TrimSpace(v.formA.Value())
	b := strings.TrimSpace(v.formB.Value())
	c := strings.TrimSpace(v.formC.Value())

	switch v.form {
	case formAddProfile:
		row := v.selectedRow()
		if row == nil || a == "" {
			v.status = "Profile name is required"
			return v, nil
		}
		if _, err := v.store.AddProfile(row.group.ID, a); err != nil {
			v.status = err.Error()
			return v, nil
		}
		v.status = "Added " + a + " to " + row.group.ID

	case formNewGroup:
		if a == "" || b == "" || c == "" {
			v.status = "All fields are required"
			return v, nil
		}
		if _, err := v.store.CreateGroup(a, c, b); err != nil {
			v.status = err.Error()
			return v, nil
		}
		v.status = "Created group " + a

	case formAssignTask:
		row := v.selectedRow()
		if row == nil || row.profile == nil || a == "" || b == "" {
			v.status = "Title and time are required"
			return v, nil
		}
		// Admin-assigned one-offs are still custom tasks, not registry ones
		if _, err := v.store.AddAdHocInstance(row.profile.ID, a, b, "Assigned by admin"); err != nil {
			v.status = err.Error()
			return v, nil
		}
		v.status = "Assigned to " + row.profile.Name

	case formNewDefinition:
		if a == "" || b == "" {
			v.status = "Title and time are required"
			return v, nil
		}
		if _, err := v.store.AddDefinition(a, b); err != nil {
			v.status = err.Error()
			return v, nil
		}

	case formEditTime:
		if len(v.defs) == 0 || a == "" {
			return v, nil
		}
		if err := v.store.SetDefaultTime(v.defs[v.defCursor].ID, a); err != nil {
			v.status = err.Error()
			return v, nil
		}
	}

	v.form = formNone
	return v, v.reload
}

func (v *AdminView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.store.RemoveProfile(v.deleteGroupID, v.deleteProfileID); err != nil {
			v.status = err.Error()
			return v, nil
		}
		return v, v.reload
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *AdminView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.form != formNone {
		return v.renderForm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	usersTab := s.TitleMuted.Render(" Users & Groups ")
	defaultsTab := s.TitleMuted.Render(" Default Tasks ")
	if v.tab == tabUsers {
		usersTab = s.ButtonPrimary.Render(" Users & Groups ")
	} else {
		defaultsTab = s.ButtonPrimary.Render(" Default Tasks ")
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Admin Console"),
		lipgloss.JoinHorizontal(lipgloss.Center, usersTab, " ", defaultsTab),
		"",
	)

	var body string
	if v.tab == tabUsers {
		body = v.renderUsers(contentWidth)
	} else {
		body = v.renderDefaults(contentWidth)
	}

	parts := []string{header, body}
	if v.status != "" {
		parts = append(parts, "", s.StatusBar.Render(v.status))
	}
	parts = append(parts, v.renderHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *AdminView) renderUsers(width int) string {
	s := v.styles

	if len(v.rows) == 0 {
		return s.TitleMuted.Render("No groups yet. Press 'g' to create one.")
	}

	var lines []string
	for i, row := range v.rows {
		var line string
		if row.profile == nil {
			line = fmt.Sprintf("%s %s",
				s.Title.Render(row.group.ID),
				s.TitleMuted.Render(fmt.Sprintf("(%d profiles, key: %s)", len(row.group.Profiles), row.group.Password)),
			)
		} else {
			line = "  • " + row.profile.Name
		}
		if i == v.cursor {
			line = s.ListSelected.Width(max(width-4, 20)).Render(line)
		} else {
			line = s.ListItem.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *AdminView) renderDefaults(width int) string {
	s := v.styles

	if len(v.defs) == 0 {
		return s.TitleMuted.Render("Registry is empty. Press 'n' to add a default task.")
	}

	var lines []string
	for i, def := range v.defs {
		line := fmt.Sprintf("%s  %s", s.TimeBadge.Render(def.DefaultTime), def.Title)
		if i == v.defCursor {
			line = s.ListSelected.Width(max(width-4, 20)).Render(line)
		} else {
			line = s.ListItem.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *AdminView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	titles := map[adminForm]string{
		formAddProfile:    "Add Profile",
		formNewGroup:      "Create Group",
		formNewDefinition: "New Default Task",
		formEditTime:      "Edit Scheduled Time",
		formAssignTask:    "Assign Task",
	}

	style := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	rows := []string{s.Title.Render(titles[v.form]), ""}
	rows = append(rows, style(0).Width(inputWidth).Render(v.formA.View()))
	if v.formFieldCount() > 1 {
		rows = append(rows, style(1).Width(inputWidth).Render(v.formB.View()))
	}
	if v.formFieldCount() > 2 {
		rows = append(rows, style(2).Width(inputWidth).Render(v.formC.View()))
	}
	if v.status != "" {
		rows = append(rows, "", s.ErrorBox.Width(inputWidth).Render(v.status))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵ save • esc cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *AdminView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Remove "+v.deleteName+"?"),
		s.TitleMuted.Render("This deletes the profile and all of its tasks."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *AdminView) renderHelp() string {
	s := v.styles
	if v.tab == tabUsers {
		return s.Help.Render(
			s.HelpKey.Render("↵") + " analytics • " +
				s.HelpKey.Render("n") + " add profile • " +
				s.HelpKey.Render("g") + " new group • " +
				s.HelpKey.Render("t") + " assign task • " +
				s.HelpKey.Render("d") + " remove • " +
				s.HelpKey.Render("tab") + " registry • " +
				s.HelpKey.Render("esc") + " sign out",
		)
	}
	return s.Help.Render(
		s.HelpKey.Render("n") + " new • " +
			s.HelpKey.Render("e") + " edit time • " +
			s.HelpKey.Render("d") + " delete • " +
			s.HelpKey.Render("tab") + " users • " +
			s.HelpKey.Render("esc") + " sign out",
	)
}

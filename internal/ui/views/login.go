package views

import (
	"errors"
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

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// LoginMode selects which credential space the form talks to
type LoginMode int

const (
	ModeUser LoginMode = iota
	ModeAdmin
)

// AuthSubMode is the form variant within a login mode
type AuthSubMode int

const (
	SubLogin AuthSubMode = iota
	SubRegister
	SubRecover
)

// LoggedIn signals a successful group sign-in
type LoggedIn struct {
	Group *models.UserGroup
}

// AdminLoggedIn signals a successful admin sign-in
type AdminLoggedIn struct {
	Admin *models.Admin
}

// LoginView is the combined sign-in / register / recover screen for
// both users and admins
type LoginView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	mode    LoginMode
	subMode AuthSubMode

	id       textinput.Model
	password textinput.Model
	confirm  textinput.Model
	profile  textinput.Model // initial profile name, user registration only

	focusIdx int
	errMsg   string
	notice   string

	width  int
	height int
}

// NewLoginView creates the login screen
func NewLoginView(s *store.Store) *LoginView {
	id := textinput.New()
	id.Placeholder = "Group ID"
	id.CharLimit = 40

	password := textinput.New()
	password.Placeholder = "Secret Key"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64

	confirm := textinput.New()
	confirm.Placeholder = "Confirm Key"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 64

	profile := textinput.New()
	profile.Placeholder = "Your Name"
	profile.CharLimit = 40

	v := &LoginView{
		store:    s,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		id:       id,
		password: password,
		confirm:  confirm,
		profile:  profile,
	}
	v.id.Focus()
	return v
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// fieldCount is the number of focusable inputs for the active submode
func (v *LoginView) fieldCount() int {
	switch {
	case v.subMode == SubLogin:
		return 2
	case v.mode == ModeUser && v.subMode == SubRegister:
		return 4 // id, key, confirm, profile name
	default:
		return 3 // id, key, confirm
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			if v.subMode != SubLogin {
				v.setSubMode(SubLogin)
				return v, nil
			}
			if v.mode == ModeAdmin {
				v.setMode(ModeUser)
				return v, nil
			}
			return v, tea.Quit

		case msg.String() == "ctrl+a":
			if v.mode == ModeUser {
				v.setMode(ModeAdmin)
			} else {
				v.setMode(ModeUser)
			}
			return v, nil

		case msg.String() == "ctrl+r":
			v.setSubMode(SubRegister)
			return v, nil

		case msg.String() == "ctrl+f":
			v.setSubMode(SubRecover)
			return v, nil

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + v.fieldCount() - 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < v.fieldCount()-1 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.id, cmd = v.id.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	case 2:
		v.confirm, cmd = v.confirm.Update(msg)
	case 3:
		v.profile, cmd = v.profile.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) setMode(m LoginMode) {
	v.mode = m
	v.setSubMode(SubLogin)
	if m == ModeAdmin {
		v.id.Placeholder = "Admin ID"
	} else {
		v.id.Placeholder = "Group ID"
	}
}

func (v *LoginView) setSubMode(m AuthSubMode) {
	v.subMode = m
	v.errMsg = ""
	v.focusIdx = 0
	v.password.Reset()
	v.confirm.Reset()
	v.updateFocus()
	switch m {
	case SubRegister:
		v.password.Placeholder = "Create Secret Key"
	case SubRecover:
		v.password.Placeholder = "New Secret Key"
	default:
		v.password.Placeholder = "Secret Key"
	}
}

func (v *LoginView) updateFocus() {
	v.id.Blur()
	v.password.Blur()
	v.confirm.Blur()
	v.profile.Blur()
	switch v.focusIdx {
	case 0:
		v.id.Focus()
	case 1:
		v.password.Focus()
	case 2:
		v.confirm.Focus()
	case 3:
		v.profile.Focus()
	}
}

// submit runs the active form against the store
func (v *LoginView) submit() tea.Cmd {
	v.errMsg = ""
	v.notice = ""

	id := strings.TrimSpace(v.id.Value())
	password := v.password.Value()

	if id == "" || password == "" {
		v.errMsg = "All fields are required"
		return nil
	}

	if v.subMode != SubLogin && password != v.confirm.Value() {
		v.errMsg = "Keys don't match"
		return nil
	}

	switch {
	case v.mode == ModeAdmin && v.subMode == SubRegister:
		if _, err := v.store.AddAdmin(id, password); err != nil {
			if errors.Is(err, store.ErrConflict) {
				v.errMsg = "Admin ID already exists"
			} else {
				v.errMsg = err.Error()
			}
			return nil
		}
		v.notice = "Admin account created. You can now sign in."
		v.setSubMode(SubLogin)

	case v.mode == ModeAdmin && v.subMode == SubRecover:
		if err := v.store.ResetAdminPassword(id, password); err != nil {
			v.errMsg = "Admin ID not found"
			return nil
		}
		v.notice = "Admin key updated."
		v.setSubMode(SubLogin)

	case v.mode == ModeAdmin:
		admin, err := v.store.ValidateAdmin(id, password)
		if err != nil {
			v.errMsg = "Admin access denied. Check credentials."
			return nil
		}
		return func() tea.Msg { return AdminLoggedIn{Admin: admin} }

	case v.subMode == SubRegister:
		if len(id) < 3 {
			v.errMsg = "Group ID must be at least 3 characters"
			return nil
		}
		name := strings.TrimSpace(v.profile.Value())
		if name == "" {
			v.errMsg = "Profile name is required"
			return nil
		}
		if _, err := v.store.CreateGroup(id, password, name); err != nil {
			if errors.Is(err, store.ErrConflict) {
				v.errMsg = "This ID is already taken"
			} else {
				v.errMsg = err.Error()
			}
			return nil
		}
		v.notice = "Account created. You can now sign in."
		v.setSubMode(SubLogin)

	case v.subMode == SubRecover:
		if err := v.store.ResetGroupPassword(id, password); err != nil {
			v.errMsg = "Group ID not found"
			return nil
		}
		v.notice = "Secret key updated."
		v.setSubMode(SubLogin)

	default:
		// Deliberately the same message for unknown id and wrong key
		group, err := v.store.ValidateGroup(id, password)
		if err != nil {
			v.errMsg = "Incorrect ID or secret key"
			return nil
		}
		return func() tea.Msg { return LoggedIn{Group: group} }
	}
	return nil
}

func (v *LoginView) title() string {
	if v.mode == ModeAdmin {
		switch v.subMode {
		case SubRegister:
			return "Create Admin"
		case SubRecover:
			return "Admin Recovery"
		}
		return "Console."
	}
	switch v.subMode {
	case SubRegister:
		return "New Account"
	case SubRecover:
		return "Reset Key"
	}
	return "Cronos."
}

func (v *LoginView) subtitle() string {
	if v.mode == ModeAdmin {
		return "SYSTEM AUTHORITY"
	}
	if v.subMode == SubRegister {
		return "JOIN THE NETWORK"
	}
	return "TASK MANAGER"
}

func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	inputStyle := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	rows := []string{
		s.Title.Render(v.title()),
		s.TitleMuted.Render(v.subtitle()),
		"",
		inputStyle(0).Width(inputWidth).Render(v.id.View()),
		inputStyle(1).Width(inputWidth).Render(v.password.View()),
	}

	if v.subMode != SubLogin {
		rows = append(rows, inputStyle(2).Width(inputWidth).Render(v.confirm.View()))
	}
	if v.mode == ModeUser && v.subMode == SubRegister {
		rows = append(rows, inputStyle(3).Width(inputWidth).Render(v.profile.View()))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorBox.Width(inputWidth).Render(v.errMsg))
	} else if v.notice != "" {
		rows = append(rows, "", s.TitleMuted.Render(v.notice))
	}

	rows = append(rows, "", v.renderHelp())

	form := lipgloss.JoinVertical(lipgloss.Center, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *LoginView) renderHelp() string {
	s := v.styles
	switch v.subMode {
	case SubLogin:
		admin := "admin"
		if v.mode == ModeAdmin {
			admin = "user"
		}
		return s.Help.Render(
			s.HelpKey.Render("↵")+" sign in • "+
				s.HelpKey.Render("ctrl+r")+" register • "+
				s.HelpKey.Render("ctrl+f")+" recover • "+
				s.HelpKey.Render("ctrl+a")+" "+admin,
		)
	default:
		return s.Help.Render(s.HelpKey.Render("↵") + " submit • " + s.HelpKey.Render("esc") + " cancel")
	}
}

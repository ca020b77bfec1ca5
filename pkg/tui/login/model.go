// Package login is the signed-out view: a username/password form that can
// also register a new account.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldDisplayName
)

// Authenticator is the part of auth.Accounts the form needs.
type Authenticator interface {
	Authenticate(username, password string) (*auth.Account, error)
	Register(username, password, displayName string) (*auth.Account, error)
	SignIn(acct *auth.Account)
}

type resultMsg struct {
	form    *Model
	account *auth.Account
	err     error
}

// Model is the login form.
type Model struct {
	accounts Authenticator
	themes   *theme.Manager
	log      pslog.Logger

	inputs   []textinput.Model
	focus    int
	register bool
	busy     bool
	err      error

	width  int
	height int
}

// New returns an empty form in login mode with the username focused.
func New(accounts Authenticator, themes *theme.Manager, logger pslog.Logger) *Model {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "user  › "
	user.CharLimit = 32
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "pass  › "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	name := textinput.New()
	name.Placeholder = "display name (optional)"
	name.Prompt = "name  › "
	name.CharLimit = 64

	return &Model{
		accounts: accounts,
		themes:   themes,
		log:      logger,
		inputs:   []textinput.Model{user, pass, name},
	}
}

// Registering reports whether the form creates an account on submit.
func (m *Model) Registering() bool { return m.register }

// Err returns the last submit error.
func (m *Model) Err() error { return m.err }

// Busy reports whether a submit is in flight.
func (m *Model) Busy() bool { return m.busy }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return textinput.Blink }

// CapturingInput is always true: every printable key belongs to a field.
func (m *Model) CapturingInput() bool { return true }

func (m *Model) fieldCount() int {
	if m.register {
		return 3
	}
	return 2
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := m.fieldCount()
	m.focus = (i + n) % n
	var cmd tea.Cmd
	for idx := range m.inputs {
		if idx == m.focus {
			cmd = m.inputs[idx].Focus()
			continue
		}
		m.inputs[idx].Blur()
	}
	return cmd
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case resultMsg:
		if msg.form != m {
			return m, nil
		}
		return m, m.finish(msg)
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "ctrl+r":
			m.register = !m.register
			m.err = nil
			return m, m.setFocus(m.focus)
		case "esc":
			m.err = nil
			return m, nil
		case "enter":
			if m.focus < m.fieldCount()-1 && m.inputs[m.focus+1].Value() == "" {
				return m, m.setFocus(m.focus + 1)
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit runs the bcrypt work off the event loop.
func (m *Model) submit() tea.Cmd {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	display := m.inputs[fieldDisplayName].Value()
	register := m.register
	if username == "" || password == "" {
		m.err = errors.New("username and password required")
		return nil
	}
	m.busy = true
	m.err = nil
	accounts := m.accounts
	form := m
	return func() tea.Msg {
		var (
			acct *auth.Account
			err  error
		)
		if register {
			acct, err = accounts.Register(username, password, display)
		} else {
			acct, err = accounts.Authenticate(username, password)
		}
		return resultMsg{form: form, account: acct, err: err}
	}
}

// finish signs in on the event loop so the auth change is observed in order.
func (m *Model) finish(msg resultMsg) tea.Cmd {
	m.busy = false
	if msg.err != nil {
		m.err = msg.err
		m.inputs[fieldPassword].SetValue("")
		m.log.Debug("login failed", "err", msg.err)
		return m.setFocus(fieldPassword)
	}
	m.accounts.SignIn(msg.account)
	return nil
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := max(min(width-16, 40), 10)
	for i := range m.inputs {
		m.inputs[i].Width = w
	}
}

// View implements ui.Component.
func (m *Model) View() string {
	th := m.themes.Theme()
	title := "Sign in to daybook"
	toggle := "ctrl+r: create an account"
	if m.register {
		title = "Create a daybook account"
		toggle = "ctrl+r: back to sign in"
	}

	rows := []string{th.Modal.Title.Render(title), ""}
	for i := 0; i < m.fieldCount(); i++ {
		rows = append(rows, m.inputs[i].View())
	}
	rows = append(rows, "")
	switch {
	case m.busy:
		rows = append(rows, th.Muted.Render("checking…"))
	case m.err != nil:
		rows = append(rows, th.Error.Render(describe(m.err)))
	default:
		rows = append(rows, th.Muted.Render("enter: submit · tab: next field"))
	}
	rows = append(rows, th.Muted.Render(toggle))

	panel := th.Panel.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width <= 0 || m.height <= 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func describe(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "unknown username or wrong password"
	case errors.Is(err, auth.ErrUserExists):
		return "that username is taken"
	default:
		return strings.TrimPrefix(err.Error(), "auth: ")
	}
}

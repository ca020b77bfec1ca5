// Package profile is the account tab.
package profile

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// ID identifies the view in events.
const ID events.ComponentID = "profile"

// ThemeSetting is where the chosen scheme is persisted.
const ThemeSetting = "theme.scheme"

// focusChoices are the focus lengths f cycles through, in minutes.
var focusChoices = []int{25, 50, 15}

// Accounts is the part of auth.Accounts the profile uses.
type Accounts interface {
	Current() (*auth.Account, error)
	SetPreferences(prefs auth.Preferences) (*auth.Account, error)
	Logout()
}

// Options configures the profile view.
type Options struct {
	Accounts Accounts
	Notifier interface{ AuthorizationStatus() notify.Status }
	Settings notify.SettingsStore
	Themes   *theme.Manager
	Logger   pslog.Logger
}

type loadedMsg struct {
	view    *Model
	account *auth.Account
	err     error
}

// Model shows the signed-in account.
type Model struct {
	opts    Options
	log     pslog.Logger
	account *auth.Account
	err     error
	status  string

	width  int
	height int
}

// New builds the profile view.
func New(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	return &Model{opts: opts, log: logger.With("component", string(ID))}
}

// Account returns the loaded account.
func (m *Model) Account() *auth.Account { return m.account }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return m.load() }

// SetActive reloads when shown.
func (m *Model) SetActive(active bool) tea.Cmd {
	if active {
		return m.load()
	}
	return nil
}

func (m *Model) load() tea.Cmd {
	accounts := m.opts.Accounts
	return func() tea.Msg {
		acct, err := accounts.Current()
		return loadedMsg{view: m, account: acct, err: err}
	}
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case loadedMsg:
		if msg.view != m {
			return m, nil
		}
		m.account, m.err = msg.account, msg.err
	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			return m, m.cycleTheme()
		case "f":
			return m, m.cycleFocus()
		case "L":
			// the router sees the signed-out state after this message
			m.opts.Accounts.Logout()
		}
	}
	return m, nil
}

func (m *Model) cycleTheme() tea.Cmd {
	scheme := m.opts.Themes.Cycle()
	m.status = "theme: " + scheme.String()
	if m.opts.Settings != nil {
		if err := m.opts.Settings.StoreSetting(ThemeSetting, scheme.String()); err != nil {
			m.log.Warn("profile theme not saved", "err", err)
		}
	}
	return func() tea.Msg { return events.ThemeChangedMsg{Scheme: scheme.String()} }
}

func (m *Model) cycleFocus() tea.Cmd {
	if m.account == nil {
		return nil
	}
	prefs := m.account.Preferences
	next := focusChoices[0]
	for i, c := range focusChoices {
		if c == prefs.FocusMinutes {
			next = focusChoices[(i+1)%len(focusChoices)]
			break
		}
	}
	prefs.FocusMinutes = next
	acct, err := m.opts.Accounts.SetPreferences(prefs)
	if err != nil {
		m.err = err
		return events.ErrorCmd(ID, err)
	}
	m.account = acct
	m.status = fmt.Sprintf("focus length: %dm (applies to the next cycle)", next)
	return nil
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View implements ui.Component.
func (m *Model) View() string {
	th := m.opts.Themes.Theme()
	if m.err != nil {
		return th.Error.Render(m.err.Error())
	}
	if m.account == nil {
		return th.Muted.Render("loading…")
	}
	a := m.account

	status := notify.StatusNotDetermined
	if m.opts.Notifier != nil {
		status = m.opts.Notifier.AuthorizationStatus()
	}
	focus := "default"
	if a.Preferences.FocusMinutes > 0 {
		focus = fmt.Sprintf("%dm", a.Preferences.FocusMinutes)
	}

	label := th.Muted.Width(16)
	rows := []string{
		th.Panel.Title.Render(a.Name()),
		"",
		label.Render("username") + th.Body.Render(a.Username),
		label.Render("member since") + th.Body.Render(a.Created.Format("2 Jan 2006")),
		label.Render("notifications") + th.Body.Render(status.String()),
		label.Render("theme") + th.Body.Render(fmt.Sprintf("%s (%s)", m.opts.Themes.Scheme(), m.opts.Themes.Resolved())),
		label.Render("focus length") + th.Body.Render(focus),
		"",
	}
	if m.status != "" {
		rows = append(rows, th.Status.Render(m.status))
	}
	rows = append(rows, th.Muted.Render("t: theme · f: focus length · L: log out"))
	return th.Panel.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Package calendar is a placeholder screen. It is built but the tab bar
// never mounts it.
package calendar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// Title and Notice are shared with the calendar CLI command.
const (
	Title  = "Calendar"
	Notice = "The calendar is coming soon. Todos, the pomodoro timer and statistics are ready today."
)

// Model is static.
type Model struct {
	themes *theme.Manager
	width  int
	height int
}

// New returns the placeholder.
func New(themes *theme.Manager) *Model {
	return &Model{themes: themes}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(ws.Width, ws.Height)
	}
	return m, nil
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) View() string {
	th := m.themes.Theme()
	body := lipgloss.JoinVertical(lipgloss.Center,
		th.Title.Render(Title),
		"",
		th.Muted.Render(Notice),
	)
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

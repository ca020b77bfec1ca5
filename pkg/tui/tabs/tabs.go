// Package tabs is the signed-in container: a five-slot tab bar over the
// feature views.
package tabs

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// Tab is a slot position in the bar.
type Tab int

const (
	Todo Tab = iota
	Calendar
	Pomodoro
	Statistics
	Profile
)

// slots is every rendered position, in bar order.
var slots = []Tab{Todo, Calendar, Pomodoro, Statistics, Profile}

// enabled is the selectable subset. Calendar renders but is never mounted.
var enabled = []Tab{Todo, Pomodoro, Statistics, Profile}

func (t Tab) String() string {
	switch t {
	case Todo:
		return "Todo"
	case Calendar:
		return "Calendar"
	case Pomodoro:
		return "Pomodoro"
	case Statistics:
		return "Statistics"
	case Profile:
		return "Profile"
	default:
		return "?"
	}
}

// Enabled reports whether t may be selected.
func (t Tab) Enabled() bool {
	for _, e := range enabled {
		if e == t {
			return true
		}
	}
	return false
}

// Contents are the views behind the enabled tabs. Entries for disabled tabs
// are ignored.
type Contents map[Tab]ui.Component

// Model holds the selected tab and every enabled tab's view.
type Model struct {
	themes   *theme.Manager
	log      pslog.Logger
	contents Contents
	selected Tab

	width  int
	height int
}

// New builds a container with Todo selected.
func New(themes *theme.Manager, contents Contents, logger pslog.Logger) *Model {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	mounted := make(Contents, len(enabled))
	for _, t := range enabled {
		if c, ok := contents[t]; ok && c != nil {
			mounted[t] = c
		}
	}
	return &Model{
		themes:   themes,
		log:      logger,
		contents: mounted,
		selected: Todo,
	}
}

// Selected returns the selected tab.
func (m *Model) Selected() Tab { return m.selected }

// Content returns the view mounted for t, if any.
func (m *Model) Content(t Tab) (ui.Component, bool) {
	c, ok := m.contents[t]
	return c, ok
}

// SelectTab switches to t and reports whether it did. Tabs outside the
// enabled set are ignored.
func (m *Model) SelectTab(t Tab) bool {
	ok, _ := m.selectTab(t)
	return ok
}

func (m *Model) selectTab(t Tab) (bool, tea.Cmd) {
	if !t.Enabled() {
		return false, nil
	}
	if t == m.selected {
		return true, nil
	}
	var cmds []tea.Cmd
	if c, ok := m.contents[m.selected]; ok {
		cmds = append(cmds, ui.SetActive(c, false))
	}
	m.selected = t
	if c, ok := m.contents[t]; ok {
		cmds = append(cmds, ui.SetActive(c, true))
	}
	m.log.Debug("tabs select", "tab", t.String())
	return true, tea.Batch(cmds...)
}

// IconVariant is Filled for the selected tab and Outline otherwise.
func (m *Model) IconVariant(t Tab) IconVariant {
	if t == m.selected {
		return Filled
	}
	return Outline
}

// Icon returns the glyph for t in its current variant.
func (m *Model) Icon(t Tab) string {
	return glyph(t, m.IconVariant(t))
}

func (m *Model) cycle(step int) tea.Cmd {
	idx := 0
	for i, t := range enabled {
		if t == m.selected {
			idx = i
			break
		}
	}
	idx = (idx + step + len(enabled)) % len(enabled)
	_, cmd := m.selectTab(enabled[idx])
	return cmd
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.contents)+1)
	for _, t := range enabled {
		if c, ok := m.contents[t]; ok {
			cmds = append(cmds, c.Init())
		}
	}
	if c, ok := m.contents[m.selected]; ok {
		cmds = append(cmds, ui.SetActive(c, true))
	}
	return tea.Batch(cmds...)
}

// Update routes keys to the selected view and everything else to all views.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		active, ok := m.contents[m.selected]
		if ok && ui.Capturing(active) {
			return m, m.forward(m.selected, msg)
		}
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
		if ok {
			return m, m.forward(m.selected, msg)
		}
		return m, nil
	case events.StartPomodoroMsg:
		_, sel := m.selectTab(Pomodoro)
		return m, tea.Batch(sel, m.forward(Pomodoro, msg))
	}

	cmds := make([]tea.Cmd, 0, len(m.contents))
	for _, t := range enabled {
		if _, ok := m.contents[t]; ok {
			cmds = append(cmds, m.forward(t, msg))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4", "5":
		t := Tab(msg.Runes[0] - '1')
		_, cmd := m.selectTab(t)
		return true, cmd
	case "tab", "right":
		return true, m.cycle(1)
	case "shift+tab", "left":
		return true, m.cycle(-1)
	}
	return false, nil
}

func (m *Model) forward(t Tab, msg tea.Msg) tea.Cmd {
	c, ok := m.contents[t]
	if !ok {
		return nil
	}
	next, cmd := c.Update(msg)
	m.contents[t] = next
	return cmd
}

// SetSize implements ui.Component. The bar takes two rows.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	inner := max(height-2, 1)
	for _, c := range m.contents {
		c.SetSize(width, inner)
	}
}

// View renders the bar above the selected view.
func (m *Model) View() string {
	th := m.themes.Theme()
	items := make([]string, 0, len(slots))
	for i, t := range slots {
		label := m.Icon(t) + " " + string(rune('1'+i)) + " " + t.String()
		style := th.Tabs.Inactive
		switch {
		case !t.Enabled():
			style = th.Tabs.Disabled
			label = m.Icon(t) + " " + string(rune('1'+i)) + " " + t.String() + " (soon)"
		case t == m.selected:
			style = th.Tabs.Active
		}
		items = append(items, style.Render(label))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	if m.width > 0 {
		bar = truncate.StringWithTail(bar, uint(m.width), "…")
	}
	bar = th.Tabs.Bar.Render(bar)

	body := ""
	if c, ok := m.contents[m.selected]; ok {
		body = c.View()
	}
	return strings.Join([]string{bar, body}, "\n")
}

// CapturingInput delegates to the selected view.
func (m *Model) CapturingInput() bool {
	c, ok := m.contents[m.selected]
	return ok && ui.Capturing(c)
}

// Unmount releases every view.
func (m *Model) Unmount() {
	for _, c := range m.contents {
		ui.Unmount(c)
	}
}

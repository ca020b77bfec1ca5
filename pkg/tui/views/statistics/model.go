// Package statistics is the stats tab: totals, a per-day histogram and the
// focus streak over a selectable window.
package statistics

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/timeutil"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// ID identifies the view in events.
const ID events.ComponentID = "statistics"

// Windows are the selectable ranges, cycled with w.
var Windows = []string{"1d", timeutil.DefaultWindow, "2w", "4w"}

type loadedMsg struct {
	view  *Model
	label string
	stats app.Stats
	err   error
}

// Model renders app.Stats.
type Model struct {
	ctx    context.Context
	svc    *app.Service
	themes *theme.Manager
	log    pslog.Logger

	window int
	stats  app.Stats
	loaded bool
	err    error

	width  int
	height int
}

// New builds the view on the default one-week window.
func New(ctx context.Context, svc *app.Service, themes *theme.Manager, logger pslog.Logger) *Model {
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	m := &Model{
		ctx:    ctx,
		svc:    svc,
		themes: themes,
		log:    logger.With("component", string(ID)),
	}
	for i, w := range Windows {
		if w == timeutil.DefaultWindow {
			m.window = i
		}
	}
	return m
}

// Window returns the current window label.
func (m *Model) Window() string { return Windows[m.window] }

// Stats returns the last loaded statistics.
func (m *Model) Stats() app.Stats { return m.stats }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return m.load() }

// SetActive reloads whenever the tab is shown.
func (m *Model) SetActive(active bool) tea.Cmd {
	if active {
		return m.load()
	}
	return nil
}

func (m *Model) load() tea.Cmd {
	label := m.Window()
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		window, _, err := timeutil.ParseWindow(label)
		if err != nil {
			return loadedMsg{view: m, label: label, err: err}
		}
		stats, err := svc.Stats(ctx, window)
		return loadedMsg{view: m, label: label, stats: stats, err: err}
	}
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case loadedMsg:
		if msg.view != m || msg.label != m.Window() {
			return m, nil
		}
		m.err = msg.err
		if msg.err != nil {
			m.log.Warn("statistics load failed", "err", msg.err)
			return m, nil
		}
		m.stats = msg.stats
		m.loaded = true
	case events.SessionRecordedMsg:
		return m, m.load()
	case tea.KeyMsg:
		switch msg.String() {
		case "w", "]":
			m.window = (m.window + 1) % len(Windows)
			return m, m.load()
		case "[":
			m.window = (m.window - 1 + len(Windows)) % len(Windows)
			return m, m.load()
		case "r":
			return m, m.load()
		}
	}
	return m, nil
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View implements ui.Component.
func (m *Model) View() string {
	th := m.themes.Theme()
	header := th.Title.Render("Statistics · last " + m.Window())
	if m.err != nil {
		return header + "\n\n" + th.Error.Render(m.err.Error())
	}
	if !m.loaded {
		return header + "\n\n" + th.Muted.Render("loading…")
	}
	s := m.stats

	label := th.Muted.Width(18)
	totals := lipgloss.JoinVertical(lipgloss.Left,
		label.Render("todos completed")+th.Body.Render(fmt.Sprint(s.TodosCompleted)),
		label.Render("todos created")+th.Body.Render(fmt.Sprint(s.TodosCreated)),
		label.Render("open todos")+th.Body.Render(fmt.Sprint(s.OpenTodos)),
		label.Render("focus sessions")+th.Body.Render(fmt.Sprint(s.FocusSessions)),
		label.Render("focus time")+th.Body.Render(timeutil.FormatWindow(s.FocusTime)),
		label.Render("streak")+th.Accent.Render(streakLabel(s.Streak)),
	)

	return strings.Join([]string{
		header,
		"",
		totals,
		"",
		m.histogram(th),
		"",
		th.Muted.Render("w/[ ]: change window · r: refresh"),
	}, "\n")
}

func streakLabel(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// histogram draws one row per day with focus minutes as a bar. Long windows
// keep only the most recent days that fit.
func (m *Model) histogram(th theme.Theme) string {
	days := m.stats.Days
	if avail := m.height - 14; avail > 0 && len(days) > avail {
		days = days[len(days)-avail:]
	}
	var peak time.Duration
	for _, d := range days {
		peak = max(peak, d.FocusTime)
	}
	barWidth := max(min(m.width-30, 40), 10)

	rows := make([]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = int(float64(barWidth) * float64(d.FocusTime) / float64(peak))
		}
		bar := th.Accent.Render(strings.Repeat("█", n)) + th.Muted.Render(strings.Repeat("·", barWidth-n))
		rows = append(rows, fmt.Sprintf("%s %s %s",
			th.Muted.Render(d.Day.Format("Mon 02 Jan")),
			bar,
			th.Body.Render(fmt.Sprintf("%s ✔%d", timeutil.FormatWindow(d.FocusTime), d.Completed)),
		))
	}
	return strings.Join(rows, "\n")
}

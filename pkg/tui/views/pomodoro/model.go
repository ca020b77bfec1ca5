// Package pomodoro is the timer tab.
package pomodoro

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/timeutil"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// ID identifies the timer in events.
const ID events.ComponentID = "pomodoro"

// Notifier delivers phase-change notifications.
type Notifier interface {
	Notify(n notify.Notification) bool
}

type keyMap struct {
	Toggle key.Binding
	Skip   key.Binding
	Reset  key.Binding
	Clear  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Reset, k.Clear}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
	Skip:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip")),
	Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear task")),
}

type tickMsg struct {
	timer *Model
	gen   int
}

// Options configures the timer view.
type Options struct {
	Service  *app.Service
	Notifier Notifier
	Themes   *theme.Manager
	Logger   pslog.Logger

	// Base is the configured cycle; account preferences are layered on top.
	Base pomodoro.Config

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the pomodoro view.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	svc      *app.Service
	notifier Notifier
	themes   *theme.Manager
	log      pslog.Logger
	base     pomodoro.Config
	now      func() time.Time

	timer *pomodoro.Timer
	gen   int

	bar    progress.Model
	help   help.Model
	status string
	active bool
	width  int
	height int
}

// New builds an idle timer.
func New(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		svc:      opts.Service,
		notifier: opts.Notifier,
		themes:   opts.Themes,
		log:      logger.With("component", string(ID)),
		base:     opts.Base.Normalize(),
		now:      now,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
	m.timer = pomodoro.NewTimer(m.config())
	return m
}

// Timer exposes the underlying clock.
func (m *Model) Timer() *pomodoro.Timer { return m.timer }

func (m *Model) config() pomodoro.Config {
	if m.svc == nil {
		return m.base
	}
	return m.svc.PomodoroConfig(m.base)
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetActive picks up preference changes while the cycle has not started.
func (m *Model) SetActive(active bool) tea.Cmd {
	m.active = active
	if active && m.pristine() {
		cfg := m.config()
		if cfg != m.timer.Config() {
			id, title := m.timer.Task()
			m.timer = pomodoro.NewTimer(cfg)
			m.timer.SetTask(id, title)
		}
	}
	return nil
}

func (m *Model) pristine() bool {
	return m.timer.State() == pomodoro.Idle &&
		m.timer.Kind() == pomodoro.Focus &&
		m.timer.FocusRounds() == 0 &&
		m.timer.Remaining(m.now()) == m.timer.Config().Focus
}

// Unmount stops the clock.
func (m *Model) Unmount() {
	m.gen++
	m.cancel()
}

func (m *Model) tick() tea.Cmd {
	m.gen++
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{timer: m, gen: gen}
	})
}

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tickMsg:
		if msg.timer != m || msg.gen != m.gen || m.timer.State() != pomodoro.Running {
			return m, nil
		}
		sess, done := m.timer.Tick(m.now())
		if !done {
			return m, m.tick()
		}
		return m, m.finished(sess)
	case events.StartPomodoroMsg:
		m.timer.SetTask(msg.TodoID, msg.Title)
		m.status = "focusing on " + msg.Title
		if m.timer.State() == pomodoro.Idle && m.timer.Kind() == pomodoro.Focus {
			m.timer.Start(m.now())
			return m, m.tick()
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	now := m.now()
	switch {
	case key.Matches(msg, keys.Toggle):
		m.timer.Toggle(now)
		if m.timer.State() == pomodoro.Running {
			m.status = ""
			return m.tick()
		}
		m.gen++
		m.status = "paused"
	case key.Matches(msg, keys.Skip):
		kind := m.timer.Kind()
		sess := m.timer.Skip(now)
		m.gen++
		m.status = "skipped " + kind.String()
		if sess != nil && sess.Elapsed() > 0 {
			return m.record(sess)
		}
	case key.Matches(msg, keys.Reset):
		m.timer.Reset()
		m.gen++
		m.status = "reset"
	case key.Matches(msg, keys.Clear):
		m.timer.SetTask("", "")
		m.status = "task cleared"
	}
	return nil
}

// finished records the session and announces the phase change.
func (m *Model) finished(sess *pomodoro.Session) tea.Cmd {
	next := m.timer.Kind()
	m.status = fmt.Sprintf("%s done, %s is next", sess.Kind, next)
	m.log.Info("pomodoro phase done", "kind", sess.Kind.String(), "next", next.String())

	n := notify.Notification{Title: "Break's over", Body: "Time to focus."}
	if sess.Kind == pomodoro.Focus {
		n = notify.Notification{
			Title: "Focus session complete",
			Body:  fmt.Sprintf("Take a %s (%s).", next, timeutil.FormatWindow(m.timer.Config().Duration(next))),
		}
	}
	notifier := m.notifier
	notifyCmd := func() tea.Msg {
		if notifier != nil {
			notifier.Notify(n)
		}
		return nil
	}
	return tea.Batch(m.record(sess), notifyCmd)
}

func (m *Model) record(sess *pomodoro.Session) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.RecordSession(ctx, sess); err != nil {
			return events.StatusMsg{Component: ID, Err: err}
		}
		return events.SessionRecordedMsg{Component: ID, Session: sess}
	}
}

// SetSize implements ui.Component.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(min(width-8, 60), 10)
	m.help.Width = width
}

// View implements ui.Component.
func (m *Model) View() string {
	th := m.themes.Theme()
	now := m.now()
	cfg := m.timer.Config()

	phase := th.Title.Render(m.timer.Kind().String())
	state := th.Muted.Render(m.timer.State().String())
	clock := th.Accent.Render(timeutil.FormatClock(m.timer.Remaining(now)))

	rounds := make([]string, cfg.Rounds)
	done := m.timer.FocusRounds() % cfg.Rounds
	if done == 0 && m.timer.FocusRounds() > 0 && m.timer.Kind() == pomodoro.LongBreak {
		done = cfg.Rounds
	}
	for i := range rounds {
		rounds[i] = "○"
		if i < done {
			rounds[i] = "●"
		}
	}

	task := th.Muted.Render("no task, press p on a todo to attach one")
	if _, title := m.timer.Task(); title != "" {
		if m.width > 0 {
			title = truncate.StringWithTail(title, uint(max(m.width-10, 8)), "…")
		}
		task = th.Body.Render("task: " + title)
	}

	lines := []string{
		phase + "  " + state,
		"",
		clock,
		m.bar.ViewAs(m.timer.Progress(now)),
		"",
		th.Muted.Render("rounds ") + strings.Join(rounds, " "),
		task,
		"",
	}
	if m.status != "" {
		lines = append(lines, th.Status.Render(m.status))
	}
	lines = append(lines, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

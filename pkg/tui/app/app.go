// Package teaui hosts the Bubble Tea program for the daybook TUI.
package teaui

import (
	"context"
	"errors"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/help"
	"tableflip.dev/daybook/pkg/tui/login"
	"tableflip.dev/daybook/pkg/tui/router"
	"tableflip.dev/daybook/pkg/tui/tabs"
	"tableflip.dev/daybook/pkg/tui/ui"
	"tableflip.dev/daybook/pkg/tui/ui/overlay"
	"tableflip.dev/daybook/pkg/tui/views/pomodoro"
	"tableflip.dev/daybook/pkg/tui/views/profile"
	"tableflip.dev/daybook/pkg/tui/views/statistics"
	"tableflip.dev/daybook/pkg/tui/views/todolist"
)

var errNoPersistence = errors.New("teaui: persistence required")

// Model is the root: the router, the status line and the modal layer.
type Model struct {
	ctx    context.Context
	env    *Env
	log    pslog.Logger
	router *router.Router
	bridge *promptBridge

	appeared   bool
	permission sync.Once

	prompt   *promptRequest
	help     *help.Model
	showHelp bool
	status   string

	width  int
	height int
}

// New builds the root model. The notifier, when present, asks through the
// model's modal prompt.
func New(ctx context.Context, env *Env) *Model {
	m := &Model{
		ctx:    ctx,
		env:    env,
		log:    env.Logger,
		bridge: newPromptBridge(),
	}
	if env.Notifier != nil {
		env.Notifier.SetPrompter(m.bridge)
	}
	m.router = router.New(router.Options{
		State:    env.State,
		Themes:   env.Themes,
		Login:    m.newLogin,
		LoggedIn: m.newTabs,
		Logger:   env.Logger.With("component", "router"),
	})
	return m
}

func (m *Model) newLogin() ui.Component {
	return login.New(m.env.Accounts, m.env.Themes, m.log.With("component", "login"))
}

// newTabs builds a fresh container; each login starts from the todo tab.
func (m *Model) newTabs() ui.Component {
	env := m.env
	contents := tabs.Contents{
		tabs.Todo: todolist.New(m.ctx, env.Service, env.Themes, m.log),
		tabs.Pomodoro: pomodoro.New(m.ctx, pomodoro.Options{
			Service:  env.Service,
			Notifier: env.Notifier,
			Themes:   env.Themes,
			Logger:   m.log,
			Base:     env.Pomodoro,
		}),
		tabs.Statistics: statistics.New(m.ctx, env.Service, env.Themes, m.log),
		tabs.Profile: profile.New(m.ctx, profile.Options{
			Accounts: env.Accounts,
			Notifier: env.Notifier,
			Settings: env.Persistence,
			Themes:   env.Themes,
			Logger:   m.log,
		}),
	}
	return tabs.New(env.Themes, contents, m.log.With("component", "tabs"))
}

// Router exposes the navigation root.
func (m *Model) Router() *router.Router { return m.router }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.bridge.wait(m.ctx))
}

// requestPermissionOnce returns the bootstrap permission command the first
// time it is called and nil afterwards.
func (m *Model) requestPermissionOnce() tea.Cmd {
	var cmd tea.Cmd
	m.permission.Do(func() {
		perms := m.env.Permissions
		if perms == nil {
			return
		}
		ctx, logger := m.ctx, m.log.With("component", "bootstrap")
		cmd = func() tea.Msg {
			return permissionResultMsg{result: RequestPermission(ctx, perms, logger)}
		}
	})
	return cmd
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.router.SetSize(msg.Width, max(msg.Height-1, 1))
		if m.help != nil {
			m.help.SetSize(helpSize(msg.Width, msg.Height))
		}
		if !m.appeared {
			m.appeared = true
			return m, m.requestPermissionOnce()
		}
		return m, nil
	case promptRequestMsg:
		m.prompt = &msg.req
		return m, m.bridge.wait(m.ctx)
	case permissionResultMsg:
		m.onPermission(msg.result)
		return m, nil
	case events.NotificationMsg:
		m.status = "🔔 " + msg.Notification.Title
		if msg.Notification.Body != "" {
			m.status += ": " + msg.Notification.Body
		}
		return m, nil
	case events.StatusMsg:
		if msg.Err != nil {
			m.log.Warn("ui error", "component", string(msg.Component), "err", msg.Err)
			m.status = "error: " + msg.Err.Error()
		} else {
			m.status = msg.Text
		}
		return m, nil
	case events.ThemeChangedMsg:
		if m.help != nil {
			m.help.SetStyle(m.env.Themes.Resolved().String())
		}
		return m, nil
	case events.AuthChangedMsg:
		if msg.Change.Authenticated {
			m.status = "signed in as " + msg.Change.Session.Username
		} else {
			m.status = "signed out"
		}
	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	_, cmd := m.router.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return true, tea.Quit
	}
	if m.prompt != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			m.answer(true)
		case "n", "N", "esc":
			m.answer(false)
		}
		return true, nil
	}
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
			return true, nil
		}
		_, cmd := m.help.Update(msg)
		return true, cmd
	}
	if m.router.CapturingInput() {
		return false, nil
	}
	switch msg.String() {
	case "q":
		return true, tea.Quit
	case "?":
		if m.help == nil {
			w, h := helpSize(m.width, m.height)
			m.help = help.New(w, h, m.env.Themes.Resolved().String())
		}
		m.showHelp = true
		return true, nil
	}
	return false, nil
}

func (m *Model) answer(ok bool) {
	m.prompt.reply <- ok
	m.prompt = nil
}

func (m *Model) onPermission(r PermissionResult) {
	switch {
	case r.Err != nil && errors.Is(r.Err, context.Canceled):
	case r.Err != nil:
		m.status = "notifications: " + r.Err.Error()
	case !r.Requested:
	case r.Status == notify.StatusGranted:
		m.status = "notifications enabled"
	default:
		m.status = "notifications off, you can still use everything else"
	}
}

func helpSize(width, height int) (int, int) {
	return max(width*3/4, 1), max(height*3/4, 1)
}

// View implements tea.Model.
func (m *Model) View() string {
	th := m.env.Themes.Theme()
	screen := m.router.View() + "\n" + th.Status.Render(m.status)
	if m.width <= 0 || m.height <= 0 {
		return screen
	}
	switch {
	case m.prompt != nil:
		screen = overlay.Compose(screen, m.width, m.height, m.promptView(), overlay.Placement{})
	case m.showHelp && m.help != nil:
		screen = overlay.Compose(screen, m.width, m.height, m.help.View(), overlay.Placement{})
	}
	return screen
}

func (m *Model) promptView() string {
	th := m.env.Themes.Theme()
	body := strings.Join([]string{
		th.Modal.Title.Render("Allow notifications?"),
		"",
		th.Modal.Body.Render("daybook can ring the terminal bell when a pomodoro"),
		th.Modal.Body.Render("phase ends. You will only be asked once."),
		"",
		th.Accent.Render("y") + " allow   " + th.Muted.Render("n") + " not now",
	}, "\n")
	return th.Modal.Frame.Render(body)
}

// Run builds the singletons, mounts the router and runs the program until
// the user quits or ctx ends.
func Run(ctx context.Context, deps Deps) error {
	if deps.Persistence == nil {
		return errNoPersistence
	}
	env := NewEnv(ctx, deps)
	m := New(ctx, env)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	// Observers run inside auth.State mutations, which happen on the event
	// loop; a blocking Send there would deadlock.
	cancel := env.State.Subscribe(func(c auth.Change) {
		go p.Send(events.AuthChangedMsg{Change: c})
	})
	defer cancel()
	env.Notifier.SetDeliver(func(n notify.Notification) {
		go p.Send(events.NotificationMsg{Notification: n})
	})

	_, err := p.Run()
	m.router.Unmount()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Package router mounts either the login view or the signed-in tab
// container, depending only on the shared auth.State.
package router

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

// Route names the mounted subtree.
type Route int

const (
	LoggedOut Route = iota
	LoggedIn
)

func (r Route) String() string {
	if r == LoggedIn {
		return "logged-in"
	}
	return "logged-out"
}

// RouteFor is the pure mapping from authentication to route.
func RouteFor(authenticated bool) Route {
	if authenticated {
		return LoggedIn
	}
	return LoggedOut
}

// Factory builds a fresh subtree. It is called on every entry into a route.
type Factory func() ui.Component

// Options configures a Router.
type Options struct {
	State    *auth.State
	Themes   *theme.Manager
	LoggedIn Factory
	Login    Factory
	Logger   pslog.Logger
}

// Router owns exactly one mounted subtree at a time.
type Router struct {
	state    *auth.State
	themes   *theme.Manager
	loggedIn Factory
	login    Factory
	log      pslog.Logger

	route  Route
	user   string
	active ui.Component
	width  int
	height int

	fade fade
}

// New mounts the subtree matching the current state.
func New(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	r := &Router{
		state:    opts.State,
		themes:   opts.Themes,
		loggedIn: opts.LoggedIn,
		login:    opts.Login,
		log:      logger,
	}
	r.route = RouteFor(r.authenticated())
	r.user = r.userID()
	r.active = r.build(r.route)
	return r
}

// Route returns the mounted route.
func (r *Router) Route() Route { return r.route }

// Active returns the mounted subtree.
func (r *Router) Active() ui.Component { return r.active }

// Fading reports whether the transition animation is running.
func (r *Router) Fading() bool { return r.fade.running() }

func (r *Router) authenticated() bool {
	return r.state != nil && r.state.IsAuthenticated()
}

func (r *Router) userID() string {
	if r.state == nil {
		return ""
	}
	if sess, ok := r.state.Session(); ok {
		return sess.UserID
	}
	return ""
}

func (r *Router) build(route Route) ui.Component {
	f := r.login
	if route == LoggedIn {
		f = r.loggedIn
	}
	c := f()
	if r.width > 0 || r.height > 0 {
		c.SetSize(r.width, r.height)
	}
	return c
}

// Init implements ui.Component.
func (r *Router) Init() tea.Cmd {
	return r.active.Init()
}

// Update forwards msg to the mounted subtree and then reconciles the route,
// so a subtree that flips auth.State is replaced before the next frame.
func (r *Router) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
	case fadeTickMsg:
		return r, r.fade.advance(msg)
	case events.AuthChangedMsg:
		r.log.Debug("router auth changed", "change", msg.Describe())
		return r, r.reconcile()
	}

	next, cmd := r.active.Update(msg)
	r.active = next
	return r, tea.Batch(cmd, r.reconcile())
}

// reconcile swaps the subtree when the route no longer matches the state.
// A different signed-in user gets a fresh signed-in subtree too.
func (r *Router) reconcile() tea.Cmd {
	want := RouteFor(r.authenticated())
	user := r.userID()
	if want == r.route && user == r.user {
		return nil
	}
	r.log.Info("router transition", "from", r.route.String(), "to", want.String(), "user", user)
	old := r.active
	r.route = want
	r.user = user
	r.active = r.build(want)
	ui.Unmount(old)
	return tea.Batch(r.active.Init(), r.startFade())
}

func (r *Router) startFade() tea.Cmd {
	if r.themes == nil {
		return nil
	}
	p := r.themes.Theme().Palette
	return r.fade.start(p.Background, p.Foreground)
}

// View implements ui.Component.
func (r *Router) View() string {
	view := r.active.View()
	if r.fade.running() {
		return r.fade.render(view)
	}
	return view
}

// SetSize implements ui.Component.
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.active.SetSize(width, height)
}

// CapturingInput delegates to the mounted subtree.
func (r *Router) CapturingInput() bool {
	return ui.Capturing(r.active)
}

// Unmount releases the mounted subtree.
func (r *Router) Unmount() {
	ui.Unmount(r.active)
}

package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
	"tableflip.dev/daybook/pkg/tui/ui"
)

type stubView struct {
	name      string
	mounted   *int
	unmounted bool
	onKey     func()
	w, h      int
}

func (s *stubView) Init() tea.Cmd { return nil }

func (s *stubView) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && s.onKey != nil {
		s.onKey()
	}
	return s, nil
}

func (s *stubView) View() string { return s.name }

func (s *stubView) SetSize(w, h int) { s.w, s.h = w, h }

func (s *stubView) Unmount() {
	s.unmounted = true
	*s.mounted--
}

type harness struct {
	state    *auth.State
	router   *Router
	mounted  int
	logins   []*stubView
	homes    []*stubView
	onLogin  func()
	onLogout func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{state: auth.NewState()}
	h.router = New(Options{
		State:  h.state,
		Themes: theme.NewManager(theme.SchemeDark, func() bool { return true }),
		Login: func() ui.Component {
			h.mounted++
			v := &stubView{name: "login", mounted: &h.mounted, onKey: func() {
				if h.onLogin != nil {
					h.onLogin()
				}
			}}
			h.logins = append(h.logins, v)
			return v
		},
		LoggedIn: func() ui.Component {
			h.mounted++
			v := &stubView{name: "tabs", mounted: &h.mounted, onKey: func() {
				if h.onLogout != nil {
					h.onLogout()
				}
			}}
			h.homes = append(h.homes, v)
			return v
		},
	})
	return h
}

func (h *harness) assertRoute(t *testing.T, want Route) {
	t.Helper()
	if got := h.router.Route(); got != want {
		t.Fatalf("expected route %v, got %v", want, got)
	}
	if h.mounted != 1 {
		t.Fatalf("expected exactly one mounted subtree, got %d", h.mounted)
	}
	name := "login"
	if want == LoggedIn {
		name = "tabs"
	}
	if v := h.router.Active().View(); v != name {
		t.Fatalf("expected %s view, got %q", name, v)
	}
}

func TestRouterStartsLoggedOut(t *testing.T) {
	h := newHarness(t)
	h.assertRoute(t, LoggedOut)
	if len(h.homes) != 0 {
		t.Fatalf("tab container must not be built while signed out")
	}
}

func TestRouterFollowsAuthRoundTrip(t *testing.T) {
	h := newHarness(t)

	h.state.SignIn(auth.Session{UserID: "u1", Username: "ada"})
	h.router.Update(events.AuthChangedMsg{Change: auth.Change{Authenticated: true}})
	h.assertRoute(t, LoggedIn)
	if !h.logins[0].unmounted {
		t.Fatalf("login view should be unmounted after sign in")
	}
	if !h.router.Fading() {
		t.Fatalf("expected crossfade after transition")
	}

	h.state.SignOut()
	h.router.Update(events.AuthChangedMsg{})
	h.assertRoute(t, LoggedOut)
	if !h.homes[0].unmounted {
		t.Fatalf("tab container should be unmounted after sign out")
	}
	if len(h.logins) != 2 {
		t.Fatalf("expected a fresh login view, built %d", len(h.logins))
	}
}

func TestRouterReconcilesAfterForwardedMessage(t *testing.T) {
	h := newHarness(t)
	h.onLogin = func() { h.state.SignIn(auth.Session{UserID: "u1"}) }
	h.onLogout = func() { h.state.SignOut() }

	h.router.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.assertRoute(t, LoggedIn)

	h.router.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	h.assertRoute(t, LoggedOut)
	if !h.homes[0].unmounted || len(h.logins) != 2 {
		t.Fatalf("expected tabs unmounted and a fresh login, built %d logins", len(h.logins))
	}
}

func TestRouterRebuildsTabsForDifferentUser(t *testing.T) {
	h := newHarness(t)
	h.state.SignIn(auth.Session{UserID: "u1", Username: "ada"})
	h.router.Update(events.AuthChangedMsg{})
	h.assertRoute(t, LoggedIn)

	h.state.SignIn(auth.Session{UserID: "u2", Username: "grace"})
	h.router.Update(events.AuthChangedMsg{})
	h.assertRoute(t, LoggedIn)
	if len(h.homes) != 2 || !h.homes[0].unmounted {
		t.Fatalf("expected the first user's tabs to be replaced, built %d", len(h.homes))
	}

	h.router.Update(events.AuthChangedMsg{})
	if len(h.homes) != 2 {
		t.Fatalf("same user must not rebuild tabs, built %d", len(h.homes))
	}
}

func TestRouterIgnoresRedundantNotifications(t *testing.T) {
	h := newHarness(t)
	h.router.Update(events.AuthChangedMsg{})
	h.router.Update(events.AuthChangedMsg{})
	h.assertRoute(t, LoggedOut)
	if len(h.logins) != 1 {
		t.Fatalf("login view rebuilt without a state change")
	}
}

func TestRouterSizesNewSubtree(t *testing.T) {
	h := newHarness(t)
	h.router.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	h.state.SignIn(auth.Session{UserID: "u1"})
	h.router.Update(events.AuthChangedMsg{})
	if v := h.homes[0]; v.w != 80 || v.h != 24 {
		t.Fatalf("new subtree not sized, got %dx%d", v.w, v.h)
	}
}

func TestFadeEndsAfterSteps(t *testing.T) {
	var f fade
	if f.start("#000000", "#ffffff") == nil {
		t.Fatalf("expected tick command")
	}
	for i := 0; i < fadeSteps; i++ {
		f.advance(fadeTickMsg{gen: f.gen})
	}
	if f.running() {
		t.Fatalf("fade should finish after %d steps", fadeSteps)
	}
	if cmd := f.advance(fadeTickMsg{gen: f.gen - 1}); cmd != nil {
		t.Fatalf("stale ticks must be ignored")
	}
}

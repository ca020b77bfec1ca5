package statistics

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store/storetest"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
)

var now = time.Date(2025, time.March, 5, 15, 0, 0, 0, time.UTC)

func newTestStats(t *testing.T) (*Model, *app.Service) {
	t.Helper()
	state := auth.NewState()
	state.SignIn(auth.Session{UserID: "u1", Username: "ada"})
	svc := &app.Service{
		Persistence: storetest.New(),
		Auth:        state,
		Now:         func() time.Time { return now },
	}
	m := New(context.Background(), svc, theme.NewManager(theme.SchemeDark, func() bool { return true }), nil)
	m.SetSize(100, 40)
	return m, svc
}

func TestLoadsDefaultWindow(t *testing.T) {
	m, svc := newTestStats(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		end := now.AddDate(0, 0, -i)
		if err := svc.RecordSession(ctx, &pomodoro.Session{
			ID: "s" + string(rune('a'+i)), Kind: pomodoro.Focus,
			Started: end.Add(-25 * time.Minute), Ended: end, Completed: true,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if m.Window() != "1w" {
		t.Fatalf("expected default window 1w, got %s", m.Window())
	}
	m.Update(m.Init()())
	s := m.Stats()
	if s.FocusSessions != 3 || s.Streak != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
	view := m.View()
	for _, want := range []string{"last 1w", "3 days", "1h15m"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWindowCycling(t *testing.T) {
	m, _ := newTestStats(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	if m.Window() != "2w" || cmd == nil {
		t.Fatalf("expected 2w with a reload, got %s", m.Window())
	}
	msg := cmd()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	m.Update(msg)
	if m.loaded {
		t.Fatalf("results for a previous window must be dropped")
	}
}

func TestSessionRecordedTriggersReload(t *testing.T) {
	m, _ := newTestStats(t)
	if _, cmd := m.Update(events.SessionRecordedMsg{}); cmd == nil {
		t.Fatalf("expected reload")
	}
	if cmd := m.SetActive(true); cmd == nil {
		t.Fatalf("activation should reload")
	}
}

func TestSignedOutShowsError(t *testing.T) {
	m, svc := newTestStats(t)
	svc.Auth.SignOut()
	m.Update(m.load()())
	if !strings.Contains(m.View(), "not signed in") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}

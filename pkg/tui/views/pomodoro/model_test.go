package pomodoro

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store/storetest"
	"tableflip.dev/daybook/pkg/tui/events"
	"tableflip.dev/daybook/pkg/tui/theme"
)

type recordingNotifier struct {
	sent []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) bool {
	r.sent = append(r.sent, n)
	return true
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTimer(t *testing.T) (*Model, *app.Service, *recordingNotifier, *fakeClock) {
	t.Helper()
	state := auth.NewState()
	state.SignIn(auth.Session{UserID: "u1", Username: "ada"})
	svc := &app.Service{Persistence: storetest.New(), Auth: state}
	clock := &fakeClock{now: time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}
	m := New(context.Background(), Options{
		Service:  svc,
		Notifier: n,
		Themes:   theme.NewManager(theme.SchemeDark, func() bool { return true }),
		Base:     pomodoro.Config{Focus: 10 * time.Minute, ShortBreak: 2 * time.Minute, LongBreak: 5 * time.Minute, Rounds: 2},
		Now:      clock.Now,
	})
	m.SetSize(80, 20)
	t.Cleanup(m.Unmount)
	return m, svc, n, clock
}

// exec runs cmd and any batched commands, returning every message.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func space() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}} }

func TestStartPomodoroAttachesTaskAndRuns(t *testing.T) {
	m, _, _, _ := newTestTimer(t)
	_, cmd := m.Update(events.StartPomodoroMsg{TodoID: "t1", Title: "write"})
	if cmd == nil || m.Timer().State() != pomodoro.Running {
		t.Fatalf("expected the timer to start, state=%v", m.Timer().State())
	}
	if id, title := m.Timer().Task(); id != "t1" || title != "write" {
		t.Fatalf("task not attached: %q %q", id, title)
	}
	if !strings.Contains(m.View(), "task: write") {
		t.Fatalf("task missing from view:\n%s", m.View())
	}
}

func TestFocusCompletionRecordsAndNotifies(t *testing.T) {
	m, svc, n, clock := newTestTimer(t)
	m.Update(space())
	if m.Timer().State() != pomodoro.Running {
		t.Fatalf("space should start the timer")
	}

	clock.Advance(5 * time.Minute)
	_, cmd := m.Update(tickMsg{timer: m, gen: m.gen})
	if cmd == nil {
		t.Fatalf("running timer should keep ticking")
	}

	clock.Advance(5 * time.Minute)
	_, cmd = m.Update(tickMsg{timer: m, gen: m.gen})
	msgs := exec(cmd)

	var recorded *pomodoro.Session
	for _, msg := range msgs {
		if r, ok := msg.(events.SessionRecordedMsg); ok {
			recorded = r.Session
		}
	}
	if recorded == nil || !recorded.CountsAsFocus() {
		t.Fatalf("expected a completed focus session, got %v", msgs)
	}
	if len(n.sent) != 1 || n.sent[0].Title != "Focus session complete" {
		t.Fatalf("expected one notification, got %+v", n.sent)
	}
	if m.Timer().Kind() != pomodoro.ShortBreak || m.Timer().State() != pomodoro.Idle {
		t.Fatalf("expected idle short break, got %v/%v", m.Timer().Kind(), m.Timer().State())
	}
	sessions, err := svc.Sessions(context.Background())
	if err != nil || len(sessions) != 1 || sessions[0].Owner != "u1" {
		t.Fatalf("session not stored: %+v (%v)", sessions, err)
	}
}

func TestStaleTicksIgnored(t *testing.T) {
	m, _, _, clock := newTestTimer(t)
	m.Update(space())
	stale := m.gen
	m.Update(space())
	m.Update(space())
	clock.Advance(time.Hour)
	if _, cmd := m.Update(tickMsg{timer: m, gen: stale}); cmd != nil {
		t.Fatalf("stale tick must not schedule work")
	}
	if m.Timer().Kind() != pomodoro.Focus {
		t.Fatalf("stale tick must not advance the phase")
	}
}

func TestPauseStopsTicking(t *testing.T) {
	m, _, _, clock := newTestTimer(t)
	m.Update(space())
	clock.Advance(time.Minute)
	m.Update(space())
	if m.Timer().State() != pomodoro.Paused {
		t.Fatalf("expected paused")
	}
	if _, cmd := m.Update(tickMsg{timer: m, gen: m.gen}); cmd != nil {
		t.Fatalf("paused timer should not tick")
	}
	if got := m.Timer().Remaining(clock.Now()); got != 9*time.Minute {
		t.Fatalf("expected 9m left, got %v", got)
	}
}

func TestSkipRecordsStartedPhase(t *testing.T) {
	m, _, _, clock := newTestTimer(t)
	m.Update(space())
	clock.Advance(3 * time.Minute)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	msgs := exec(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one recorded session, got %v", msgs)
	}
	if r, ok := msgs[0].(events.SessionRecordedMsg); !ok || r.Session.Completed {
		t.Fatalf("skipped session must be incomplete, got %#v", msgs[0])
	}
}

func TestActivationAppliesPreferences(t *testing.T) {
	m, svc, _, _ := newTestTimer(t)
	if err := svc.Persistence.StoreAccount(&auth.Account{
		Username:    "ada",
		Preferences: auth.Preferences{FocusMinutes: 45},
	}); err != nil {
		t.Fatalf("store account: %v", err)
	}
	m.SetActive(true)
	if got := m.Timer().Config().Focus; got != 45*time.Minute {
		t.Fatalf("expected 45m focus, got %v", got)
	}
}

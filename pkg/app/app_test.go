package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store/storetest"
)

var testNow = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)

func newSignedInService(userID string) *Service {
	state := auth.NewState()
	state.SignIn(auth.Session{UserID: userID, Username: userID})
	return &Service{
		Persistence: storetest.New(),
		Auth:        state,
		Now:         func() time.Time { return testNow },
	}
}

func TestServiceRequiresSignIn(t *testing.T) {
	svc := &Service{Persistence: storetest.New(), Auth: auth.NewState()}
	if _, err := svc.Todos(context.Background()); !errors.Is(err, auth.ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	if _, err := (&Service{}).Todos(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestTodoLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newSignedInService("ada")

	if _, err := svc.AddTodo(ctx, "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	item, err := svc.AddTodo(ctx, "plan week")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.Owner != "ada" || !item.Created.Equal(testNow) {
		t.Fatalf("unexpected todo %+v", item)
	}

	done, err := svc.ToggleDone(ctx, item.ShortID())
	if err != nil || !done.Done {
		t.Fatalf("toggle done: %+v (%v)", done, err)
	}
	pri, err := svc.TogglePriority(ctx, item.ID)
	if err != nil || !pri.Priority || !pri.Done {
		t.Fatalf("toggle priority: %+v (%v)", pri, err)
	}
	if _, err := svc.Rename(ctx, item.ID, "plan month"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := svc.DeleteTodo(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Todo(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTodosAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	svc := newSignedInService("ada")
	if _, err := svc.AddTodo(ctx, "ada's"); err != nil {
		t.Fatalf("add: %v", err)
	}
	svc.Auth.SignIn(auth.Session{UserID: "grace"})
	items, err := svc.Todos(ctx)
	if err != nil {
		t.Fatalf("todos: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("grace must not see ada's todos, got %d", len(items))
	}
}

func TestRecordSessionSetsOwner(t *testing.T) {
	ctx := context.Background()
	svc := newSignedInService("ada")
	sess := &pomodoro.Session{ID: "s1", Kind: pomodoro.Focus, Started: testNow.Add(-25 * time.Minute), Ended: testNow, Completed: true}
	if err := svc.RecordSession(ctx, sess); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := svc.Sessions(ctx)
	if err != nil || len(got) != 1 || got[0].Owner != "ada" {
		t.Fatalf("unexpected sessions %+v (%v)", got, err)
	}
}

func TestPomodoroConfigUsesAccountPreferences(t *testing.T) {
	svc := newSignedInService("ada")
	base := pomodoro.DefaultConfig()
	if got := svc.PomodoroConfig(base); got != base {
		t.Fatalf("without an account the base config applies, got %+v", got)
	}
	if err := svc.Persistence.StoreAccount(&auth.Account{
		Username:    "ada",
		Preferences: auth.Preferences{FocusMinutes: 50, Rounds: 2},
	}); err != nil {
		t.Fatalf("store account: %v", err)
	}
	got := svc.PomodoroConfig(base)
	if got.Focus != 50*time.Minute || got.Rounds != 2 || got.ShortBreak != base.ShortBreak {
		t.Fatalf("unexpected merged config %+v", got)
	}
}

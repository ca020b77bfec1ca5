package app

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/todo"
)

func focusAt(end time.Time) *pomodoro.Session {
	return &pomodoro.Session{
		Kind:      pomodoro.Focus,
		Started:   end.Add(-25 * time.Minute),
		Ended:     end,
		Completed: true,
	}
}

func TestComputeStatsCountsWindow(t *testing.T) {
	until := time.Date(2025, time.March, 5, 18, 0, 0, 0, time.UTC)
	since := until.Add(-3 * 24 * time.Hour)

	doneInside := &todo.Todo{ID: "a", Created: until.Add(-48 * time.Hour)}
	doneInside.Complete(until.Add(-24 * time.Hour))
	doneBefore := &todo.Todo{ID: "b", Created: since.Add(-48 * time.Hour)}
	doneBefore.Complete(since.Add(-time.Hour))
	open := &todo.Todo{ID: "c", Created: until.Add(-time.Hour)}

	sessions := []*pomodoro.Session{
		focusAt(until.Add(-time.Hour)),
		focusAt(until.Add(-2 * time.Hour)),
		{Kind: pomodoro.Focus, Started: until.Add(-3 * time.Hour), Ended: until.Add(-170 * time.Minute)},
		{Kind: pomodoro.ShortBreak, Started: until.Add(-time.Hour), Ended: until, Completed: true},
	}

	stats := ComputeStats([]*todo.Todo{doneInside, doneBefore, open}, sessions, since, until)

	if stats.TodosCompleted != 1 || stats.TodosCreated != 2 || stats.OpenTodos != 1 {
		t.Fatalf("unexpected todo counts: %+v", stats)
	}
	if stats.FocusSessions != 2 || stats.FocusTime != 50*time.Minute {
		t.Fatalf("unexpected focus totals: sessions=%d time=%v", stats.FocusSessions, stats.FocusTime)
	}
	if len(stats.Days) != 4 {
		t.Fatalf("expected 4 day buckets, got %d", len(stats.Days))
	}
	last := stats.Days[len(stats.Days)-1]
	if last.FocusSessions != 2 || last.Completed != 0 {
		t.Fatalf("unexpected last day: %+v", last)
	}
	if stats.Days[2].Completed != 1 {
		t.Fatalf("expected completion on March 4, got %+v", stats.Days[2])
	}
}

func TestStreakAllowsQuietToday(t *testing.T) {
	today := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)
	sessions := []*pomodoro.Session{
		focusAt(today.AddDate(0, 0, -1)),
		focusAt(today.AddDate(0, 0, -2)),
		focusAt(today.AddDate(0, 0, -4)),
	}
	stats := ComputeStats(nil, sessions, today.AddDate(0, 0, -7), today)
	if stats.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", stats.Streak)
	}

	sessions = append(sessions, focusAt(today))
	stats = ComputeStats(nil, sessions, today.AddDate(0, 0, -7), today)
	if stats.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", stats.Streak)
	}
}

func TestServiceStatsUsesWindow(t *testing.T) {
	ctx := context.Background()
	svc := newSignedInService("ada")
	item, err := svc.AddTodo(ctx, "ship it")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Complete(ctx, item.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	stats, err := svc.Stats(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodosCompleted != 1 || !stats.Until.Equal(testNow) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

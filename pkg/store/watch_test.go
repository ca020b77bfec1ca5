package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/daybook/pkg/todo"
)

func TestPersistenceWatchEmitsBucketChanges(t *testing.T) {
	p := loadTestPersistence(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	item := todo.New("owner-1", "hello world", time.Now())
	if err := p.StoreTodo(item); err != nil {
		t.Fatalf("store todo: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Bucket != BucketTodos {
				t.Fatalf("expected bucket %q, got %q", BucketTodos, evt.Bucket)
			}
			if !evt.Affects(BucketTodos, "owner-1") {
				t.Fatalf("event %+v should affect owner-1 todos", evt)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for bucket change event")
		}
	}
}

func TestEventForPathIgnoresForeignFiles(t *testing.T) {
	p := loadTestPersistence(t).(*persistence)

	if _, ok := p.eventForPath(p.basePath + "/daybook.log"); ok {
		t.Fatalf("log file must not produce events")
	}
	ev, ok := p.eventForPath(p.basePath + "/sessions/owner-1/abc")
	if !ok || ev.Bucket != BucketSessions || ev.Owner != "owner-1" {
		t.Fatalf("unexpected event %+v (%v)", ev, ok)
	}
	if ev.Affects(BucketTodos, "owner-1") {
		t.Fatalf("session change must not affect todos")
	}
}

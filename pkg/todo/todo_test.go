package todo

import (
	"testing"
	"time"
)

func TestSortOpenPriorityFirst(t *testing.T) {
	base := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	a := &Todo{ID: "a", Title: "plain", Created: base}
	b := &Todo{ID: "b", Title: "urgent", Priority: true, Created: base.Add(time.Hour)}
	c := &Todo{ID: "c", Title: "done early", Created: base.Add(-time.Hour)}
	c.Complete(base.Add(2 * time.Hour))
	d := &Todo{ID: "d", Title: "done late", Created: base.Add(-2 * time.Hour)}
	d.Complete(base.Add(3 * time.Hour))

	items := []*Todo{c, a, d, b}
	Sort(items)

	want := []string{"b", "a", "d", "c"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestToggleSetsAndClearsCompletion(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	item := New("owner", "  write tests ", now)
	if item.Title != "write tests" {
		t.Fatalf("expected trimmed title, got %q", item.Title)
	}
	if !item.Toggle(now) || item.Completed == nil {
		t.Fatalf("expected todo to be completed")
	}
	if item.Toggle(now) || item.Completed != nil {
		t.Fatalf("expected todo to be reopened")
	}
}

func TestFindByPrefix(t *testing.T) {
	items := []*Todo{{ID: "abc123"}, {ID: "abd456"}}
	if got, err := FindByPrefix(items, "abc"); err != nil || got.ID != "abc123" {
		t.Fatalf("expected abc123, got %v (%v)", got, err)
	}
	if _, err := FindByPrefix(items, "ab"); err == nil {
		t.Fatalf("expected ambiguity error")
	}
	if _, err := FindByPrefix(items, "zz"); err == nil {
		t.Fatalf("expected not found error")
	}
}

// Package todo defines the todo item persisted per user.
package todo

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is a single item on a user's list.
type Todo struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Done      bool       `json:"done,omitempty"`
	Priority  bool       `json:"priority,omitempty"`
	Created   time.Time  `json:"created"`
	Completed *time.Time `json:"completed,omitempty"`
	Due       *time.Time `json:"due,omitempty"`
}

// New returns an open todo owned by owner, created at now.
func New(owner, title string, now time.Time) *Todo {
	return &Todo{
		ID:      uuid.NewString(),
		Owner:   owner,
		Title:   strings.TrimSpace(title),
		Created: now,
	}
}

// Complete marks the todo done at the given time.
func (t *Todo) Complete(at time.Time) {
	t.Done = true
	t.Completed = &at
}

// Reopen clears completion.
func (t *Todo) Reopen() {
	t.Done = false
	t.Completed = nil
}

// Toggle flips completion and reports the new state.
func (t *Todo) Toggle(at time.Time) bool {
	if t.Done {
		t.Reopen()
	} else {
		t.Complete(at)
	}
	return t.Done
}

// ShortID is the prefix used by the CLI to address a todo.
func (t *Todo) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}

// Glyph is the checkbox rendered next to the title.
func (t *Todo) Glyph() string {
	if t.Done {
		return "✔"
	}
	return "○"
}

func (t *Todo) String() string {
	sig := " "
	if t.Priority {
		sig = "✷"
	}
	return fmt.Sprintf("%s %s  %s", sig, t.Glyph(), t.Title)
}

// Sort orders open items first (priority before the rest), then completed
// items by completion time, newest first. Ties fall back to creation order.
func Sort(items []*Todo) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a == nil || b == nil {
			return a != nil
		}
		if a.Done != b.Done {
			return !a.Done
		}
		if !a.Done && a.Priority != b.Priority {
			return a.Priority
		}
		if a.Done && a.Completed != nil && b.Completed != nil && !a.Completed.Equal(*b.Completed) {
			return a.Completed.After(*b.Completed)
		}
		if a.Created.Equal(b.Created) {
			return a.ID < b.ID
		}
		return a.Created.Before(b.Created)
	})
}

// FindByPrefix returns the single todo whose id starts with prefix.
func FindByPrefix(items []*Todo, prefix string) (*Todo, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("todo: id required")
	}
	var found *Todo
	for _, t := range items {
		if t == nil || !strings.HasPrefix(t.ID, prefix) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("todo: id %q is ambiguous", prefix)
		}
		found = t
	}
	if found == nil {
		return nil, fmt.Errorf("todo: no item matches %q", prefix)
	}
	return found, nil
}

// Package storetest provides an in-memory store.Persistence for tests.
package storetest

import (
	"context"
	"sort"
	"sync"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store"
	"tableflip.dev/daybook/pkg/todo"
)

// Memory keeps every record in maps and publishes a bucket event to watchers
// on each write.
type Memory struct {
	mu       sync.Mutex
	todos    map[string]todo.Todo
	sessions map[string]pomodoro.Session
	accounts map[string]auth.Account
	settings map[string]string
	watchers []chan store.Event
}

var _ store.Persistence = (*Memory)(nil)

// New returns an empty store.
func New() *Memory {
	return &Memory{
		todos:    make(map[string]todo.Todo),
		sessions: make(map[string]pomodoro.Session),
		accounts: make(map[string]auth.Account),
		settings: make(map[string]string),
	}
}

func (m *Memory) Todos(_ context.Context, owner string) []*todo.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*todo.Todo, 0)
	for _, t := range m.todos {
		if t.Owner == owner {
			cp := t
			out = append(out, &cp)
		}
	}
	todo.Sort(out)
	return out
}

func (m *Memory) StoreTodo(t *todo.Todo) error {
	m.mu.Lock()
	m.todos[t.ID] = *t
	m.mu.Unlock()
	m.publish(store.Event{Type: store.EventBucketChanged, Bucket: store.BucketTodos, Owner: t.Owner})
	return nil
}

func (m *Memory) DeleteTodo(t *todo.Todo) error {
	m.mu.Lock()
	delete(m.todos, t.ID)
	m.mu.Unlock()
	m.publish(store.Event{Type: store.EventBucketChanged, Bucket: store.BucketTodos, Owner: t.Owner})
	return nil
}

func (m *Memory) Sessions(_ context.Context, owner string) []*pomodoro.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pomodoro.Session, 0)
	for _, s := range m.sessions {
		if s.Owner == owner {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Ended.Equal(out[j].Ended) {
			return out[i].ID < out[j].ID
		}
		return out[i].Ended.Before(out[j].Ended)
	})
	return out
}

func (m *Memory) StoreSession(s *pomodoro.Session) error {
	m.mu.Lock()
	m.sessions[s.ID] = *s
	m.mu.Unlock()
	m.publish(store.Event{Type: store.EventBucketChanged, Bucket: store.BucketSessions, Owner: s.Owner})
	return nil
}

func (m *Memory) Account(username string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[username]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	return &a, nil
}

func (m *Memory) StoreAccount(a *auth.Account) error {
	m.mu.Lock()
	m.accounts[a.Username] = *a
	m.mu.Unlock()
	return nil
}

func (m *Memory) Usernames(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.accounts))
	for name := range m.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Memory) Setting(name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.settings[name]
	return v, ok, nil
}

func (m *Memory) StoreSetting(name, value string) error {
	m.mu.Lock()
	m.settings[name] = value
	m.mu.Unlock()
	return nil
}

// Watch returns a buffered feed that closes when ctx ends. Events are
// dropped when the buffer is full.
func (m *Memory) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event, 16)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *Memory) publish(ev store.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watchers {
		select {
		case w <- ev:
		default:
		}
	}
}

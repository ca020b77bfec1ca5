package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/store"
	"tableflip.dev/daybook/pkg/todo"
)

// Service provides high-level operations on the signed-in user's data.
// It wraps persistence so the UI and CLI share logic; every call is scoped to
// the owner in Auth.
type Service struct {
	Persistence store.Persistence
	Auth        *auth.State

	// Now defaults to time.Now.
	Now func() time.Time
}

var (
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrNotFound      = errors.New("app: todo not found")
	ErrEmptyTitle    = errors.New("app: title required")
)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) owner() (string, error) {
	if s.Persistence == nil {
		return "", ErrNoPersistence
	}
	if s.Auth == nil {
		return "", auth.ErrNotSignedIn
	}
	sess, ok := s.Auth.Session()
	if !ok {
		return "", auth.ErrNotSignedIn
	}
	return sess.UserID, nil
}

// Todos lists the user's todos, open items first.
func (s *Service) Todos(ctx context.Context) ([]*todo.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.Persistence.Todos(ctx, owner), nil
}

// Todo finds one todo by id or unique id prefix.
func (s *Service) Todo(ctx context.Context, id string) (*todo.Todo, error) {
	items, err := s.Todos(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range items {
		if t.ID == id {
			return t, nil
		}
	}
	t, err := todo.FindByPrefix(items, id)
	if err != nil {
		return nil, errors.Join(ErrNotFound, err)
	}
	return t, nil
}

// AddTodo creates and stores a new todo.
func (s *Service) AddTodo(ctx context.Context, title string) (*todo.Todo, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	t := todo.New(owner, title, s.now())
	if err := s.Persistence.StoreTodo(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ToggleDone flips completion of the todo id.
func (s *Service) ToggleDone(ctx context.Context, id string) (*todo.Todo, error) {
	return s.mutate(ctx, id, func(t *todo.Todo) { t.Toggle(s.now()) })
}

// Complete marks the todo id done. Completing a done todo is a no-op.
func (s *Service) Complete(ctx context.Context, id string) (*todo.Todo, error) {
	return s.mutate(ctx, id, func(t *todo.Todo) {
		if !t.Done {
			t.Complete(s.now())
		}
	})
}

// TogglePriority flips the priority flag of the todo id.
func (s *Service) TogglePriority(ctx context.Context, id string) (*todo.Todo, error) {
	return s.mutate(ctx, id, func(t *todo.Todo) { t.Priority = !t.Priority })
}

// Rename changes the title of the todo id.
func (s *Service) Rename(ctx context.Context, id, title string) (*todo.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	return s.mutate(ctx, id, func(t *todo.Todo) { t.Title = strings.TrimSpace(title) })
}

// DeleteTodo removes the todo id permanently.
func (s *Service) DeleteTodo(ctx context.Context, id string) error {
	t, err := s.Todo(ctx, id)
	if err != nil {
		return err
	}
	return s.Persistence.DeleteTodo(t)
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*todo.Todo)) (*todo.Todo, error) {
	t, err := s.Todo(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(t)
	if err := s.Persistence.StoreTodo(t); err != nil {
		return nil, err
	}
	return t, nil
}

// RecordSession stores a pomodoro session for the signed-in user.
func (s *Service) RecordSession(ctx context.Context, sess *pomodoro.Session) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("app: session required")
	}
	sess.Owner = owner
	return s.Persistence.StoreSession(sess)
}

// Sessions lists the user's pomodoro sessions, oldest first.
func (s *Service) Sessions(ctx context.Context) ([]*pomodoro.Session, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.Persistence.Sessions(ctx, owner), nil
}

// Owner returns the signed-in user id.
func (s *Service) Owner() (string, error) {
	return s.owner()
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// PomodoroConfig overlays the signed-in account's preferences on base.
func (s *Service) PomodoroConfig(base pomodoro.Config) pomodoro.Config {
	if s.Persistence == nil || s.Auth == nil {
		return base.Normalize()
	}
	sess, ok := s.Auth.Session()
	if !ok {
		return base.Normalize()
	}
	acct, err := s.Persistence.Account(sess.Username)
	if err != nil {
		return base.Normalize()
	}
	p := acct.Preferences
	if p.FocusMinutes > 0 {
		base.Focus = time.Duration(p.FocusMinutes) * time.Minute
	}
	if p.ShortMinutes > 0 {
		base.ShortBreak = time.Duration(p.ShortMinutes) * time.Minute
	}
	if p.LongMinutes > 0 {
		base.LongBreak = time.Duration(p.LongMinutes) * time.Minute
	}
	if p.Rounds > 0 {
		base.Rounds = p.Rounds
	}
	return base.Normalize()
}

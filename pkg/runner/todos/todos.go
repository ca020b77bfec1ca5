// Package todos holds the CLI actions on the signed-in user's todo list.
package todos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/printers"
	"tableflip.dev/daybook/pkg/todo"
)

var errNoService = errors.New("todos: no service")

func output(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

// List prints the todos, open first. Done items are hidden unless All.
type List struct {
	Service *app.Service
	All     bool
	ShowID  bool
	JSON    bool
	Out     io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errNoService
	}
	items, err := l.Service.Todos(ctx)
	if err != nil {
		return err
	}
	shown := make([]*todo.Todo, 0, len(items))
	for _, t := range items {
		if l.All || !t.Done {
			shown = append(shown, t)
		}
	}

	if l.JSON {
		enc := json.NewEncoder(output(l.Out))
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	pp := printers.PrettyPrint{ShowID: l.ShowID, Out: l.Out}
	pp.NewLine()
	pp.TitleWithCount("Todos", len(shown))
	pp.Todos(shown...)
	return nil
}

// Add creates a todo, optionally flagged as priority.
type Add struct {
	Service  *app.Service
	Title    string
	Priority bool
	Out      io.Writer
}

func (a *Add) Do(ctx context.Context) error {
	if a.Service == nil {
		return errNoService
	}
	t, err := a.Service.AddTodo(ctx, a.Title)
	if err != nil {
		return err
	}
	if a.Priority {
		if t, err = a.Service.TogglePriority(ctx, t.ID); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(output(a.Out), "added %s %s\n", t.ShortID(), t.Title)
	return nil
}

// Done marks the todo addressed by ID (or a unique prefix) complete.
type Done struct {
	Service *app.Service
	ID      string
	Out     io.Writer
}

func (d *Done) Do(ctx context.Context) error {
	if d.Service == nil {
		return errNoService
	}
	t, err := d.Service.Complete(ctx, d.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(d.Out), "done %s %s\n", t.ShortID(), t.Title)
	return nil
}

// Remove deletes the todo addressed by ID.
type Remove struct {
	Service *app.Service
	ID      string
	Out     io.Writer
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Service == nil {
		return errNoService
	}
	t, err := r.Service.Todo(ctx, r.ID)
	if err != nil {
		return err
	}
	if err := r.Service.DeleteTodo(ctx, t.ID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(r.Out), "removed %s %s\n", t.ShortID(), t.Title)
	return nil
}

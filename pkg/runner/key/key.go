// Package key prints the todo glyph legend and the terminal UI key bindings.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Binding is one row of a legend.
type Binding struct {
	Key     string
	Meaning string
}

// Glyphs are the markers printed next to todos.
var Glyphs = []Binding{
	{"○", "open"},
	{"✔", "done"},
	{"✷", "priority"},
}

// Keys are the global and per-tab bindings of `daybook ui`.
var Keys = []Binding{
	{"1-5", "select tab"},
	{"tab / shift+tab", "next / previous tab"},
	{"a", "add todo"},
	{"space", "toggle done, or start/pause the timer"},
	{"!", "toggle priority"},
	{"d", "delete todo"},
	{"p", "start a pomodoro on the selected todo"},
	{"[ ]", "change the statistics window"},
	{"t", "cycle theme"},
	{"L", "log out"},
	{"?", "help"},
	{"q", "quit"},
}

// Key prints both legends to Out, or color.Output when Out is nil.
type Key struct {
	Out io.Writer
}

func (k *Key) Do(_ context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "")
	k.Table(out, "Glyph", Glyphs)
	_, _ = fmt.Fprintln(out, "")
	k.Table(out, "Key", Keys)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Table renders one legend.
func (k *Key) Table(out io.Writer, heading string, rows []Binding) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(heading), bold.Sprint("Meaning"))
	for _, v := range rows {
		tbl.AddRow(v.Key, v.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}

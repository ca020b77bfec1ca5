package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/todo"
)

func TestTodosShowsShortIDs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}

	item := todo.New("u1", "water plants", time.Now())
	pp.Todos(item)

	out := buf.String()
	if !strings.Contains(out, item.ShortID()) || !strings.Contains(out, "water plants") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, item.ID[8:]) {
		t.Fatalf("full id should not be printed: %q", out)
	}
}

func TestTodosEmpty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Todos()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

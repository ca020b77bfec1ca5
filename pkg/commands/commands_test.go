package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/daybook/pkg/todo"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DAYBOOK_CONFIG_PATH", dir)
	t.Setenv("DAYBOOK_PATH", dir+"/data")
	t.Setenv("DAYBOOK_USER", "")
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, name := range []string{"ui", "key", "register", "passwd", "todo", "stats", "calendar", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing command %q: %v", name, err)
		}
	}
}

func TestCalendarPrintsNotice(t *testing.T) {
	out, err := run(t, "", "calendar")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if !strings.Contains(out, "coming soon") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRegisterThenTodos(t *testing.T) {
	isolate(t)

	if out, err := run(t, "s3cret!\n", "register", "ada", "--password-from-stdin"); err != nil {
		t.Fatalf("register: %v (%s)", err, out)
	}
	if _, err := run(t, "s3cret!\n", "register", "ada", "--password-from-stdin"); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	if out, err := run(t, "s3cret!\n", "todo", "add", "-u", "ada", "--password-from-stdin", "-p", "call", "the", "bank"); err != nil {
		t.Fatalf("add: %v (%s)", err, out)
	}

	out, err := run(t, "s3cret!\n", "todo", "list", "-u", "ada", "--password-from-stdin", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var items []*todo.Todo
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(items) != 1 || items[0].Title != "call the bank" || !items[0].Priority {
		t.Fatalf("unexpected todos %+v", items)
	}

	if _, err := run(t, "wrong-password\n", "todo", "list", "-u", "ada", "--password-from-stdin"); err == nil {
		t.Fatalf("expected a wrong password to fail")
	}
}

func TestStatsJSONAfterRegister(t *testing.T) {
	isolate(t)
	if _, err := run(t, "s3cret!\n", "register", "grace", "--password-from-stdin"); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := run(t, "s3cret!\n", "stats", "-u", "grace", "--password-from-stdin", "--last", "2d", "--json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, `"window": "2d"`) {
		t.Fatalf("unexpected stats %q", out)
	}
}

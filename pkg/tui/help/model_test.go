package help

import (
	"strings"
	"testing"
)

func TestHelpRendersMarkdown(t *testing.T) {
	m := New(100, 200, "dark")
	out := plain(m.View())
	if m.err != nil {
		t.Fatalf("render failed: %v", m.err)
	}
	for _, want := range []string{"daybook", "Pomodoro", "toggle done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q:\n%s", want, out)
		}
	}
}

func TestHelpEnforcesMinimumSize(t *testing.T) {
	m := New(5, 2, "")
	if m.width != 32 || m.height != 8 {
		t.Fatalf("expected minimum 32x8, got %dx%d", m.width, m.height)
	}
	if m.style != "dark" {
		t.Fatalf("expected default style, got %q", m.style)
	}
}

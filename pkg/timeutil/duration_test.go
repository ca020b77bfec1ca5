package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	dur, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 7*24*time.Hour {
		t.Fatalf("expected one week, got %v", dur)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1w 2d6h30m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24+2*24+6)*time.Hour + 30*time.Minute
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w2d6h30m" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3x", "0d"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		25 * time.Minute:        "25:00",
		90*time.Second + 1:      "01:31",
		0:                       "00:00",
		-time.Second:            "00:00",
		59*time.Minute + 999999: "59:01",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestDaysIsInclusive(t *testing.T) {
	since := time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC)
	until := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	days := Days(since, until)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first day %v", days[0])
	}
}

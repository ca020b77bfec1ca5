// Package timeutil parses statistics windows and formats clock values.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is used when no statistics window is given.
	DefaultWindow = "1w"

	day  = 24 * time.Hour
	week = 7 * day
)

var (
	segmentPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units          = map[string]time.Duration{
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
		"d":       day,
		"day":     day,
		"days":    day,
		"w":       week,
		"wk":      week,
		"wks":     week,
		"week":    week,
		"weeks":   week,
	}
)

// ParseWindow parses "1w", "3d", "1w2d6h" and the like into a duration plus
// its canonical compact label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	total := time.Duration(0)
	for len(remaining) > 0 {
		m := segmentPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("timeutil: invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = strings.TrimSpace(remaining[len(m[0]):])
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with w/d/h/m tokens, dropping seconds.
func FormatWindow(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}
	steps := []struct {
		label string
		value time.Duration
	}{
		{"w", week},
		{"d", day},
		{"h", time.Hour},
		{"m", time.Minute},
	}
	var b strings.Builder
	for _, s := range steps {
		if d < s.value {
			continue
		}
		n := d / s.value
		d -= n * s.value
		fmt.Fprintf(&b, "%d%s", n, s.label)
	}
	return b.String()
}

// FormatClock renders d as MM:SS, rounding partial seconds up so a running
// timer never shows 00:00 before it is done.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns the midnights from since's day up to and including until's day.
func Days(since, until time.Time) []time.Time {
	start := StartOfDay(since)
	end := StartOfDay(until)
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

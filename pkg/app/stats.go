package app

import (
	"context"
	"time"

	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/timeutil"
	"tableflip.dev/daybook/pkg/todo"
)

// DayStat is one bar of the per-day histogram.
type DayStat struct {
	Day           time.Time
	Completed     int
	FocusSessions int
	FocusTime     time.Duration
}

// Stats summarises a user's activity over a window.
type Stats struct {
	Since time.Time
	Until time.Time

	TodosCreated   int
	TodosCompleted int
	OpenTodos      int

	FocusSessions int
	FocusTime     time.Duration

	Days []DayStat

	// Streak counts consecutive days, ending today (or yesterday when today
	// has nothing yet), with at least one completed focus session.
	Streak int
}

// Stats computes statistics for the window ending now.
func (s *Service) Stats(ctx context.Context, window time.Duration) (Stats, error) {
	todos, err := s.Todos(ctx)
	if err != nil {
		return Stats{}, err
	}
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return Stats{}, err
	}
	now := s.now()
	return ComputeStats(todos, sessions, now.Add(-window), now), nil
}

// ComputeStats aggregates todos and sessions between since and until.
func ComputeStats(todos []*todo.Todo, sessions []*pomodoro.Session, since, until time.Time) Stats {
	if since.After(until) {
		since, until = until, since
	}
	out := Stats{Since: since, Until: until}

	days := timeutil.Days(since, until)
	index := make(map[time.Time]int, len(days))
	out.Days = make([]DayStat, len(days))
	for i, d := range days {
		out.Days[i] = DayStat{Day: d}
		index[d] = i
	}
	bucket := func(t time.Time) *DayStat {
		if i, ok := index[timeutil.StartOfDay(t.In(until.Location()))]; ok {
			return &out.Days[i]
		}
		return nil
	}
	within := func(t time.Time) bool {
		return !t.Before(since) && !t.After(until)
	}

	for _, t := range todos {
		if t == nil {
			continue
		}
		if !t.Done {
			out.OpenTodos++
		}
		if within(t.Created) {
			out.TodosCreated++
		}
		if t.Done && t.Completed != nil && within(*t.Completed) {
			out.TodosCompleted++
			if b := bucket(*t.Completed); b != nil {
				b.Completed++
			}
		}
	}

	focusDays := make(map[time.Time]bool)
	for _, sess := range sessions {
		if !sess.CountsAsFocus() {
			continue
		}
		focusDays[timeutil.StartOfDay(sess.Ended.In(until.Location()))] = true
		if !within(sess.Ended) {
			continue
		}
		out.FocusSessions++
		out.FocusTime += sess.Elapsed()
		if b := bucket(sess.Ended); b != nil {
			b.FocusSessions++
			b.FocusTime += sess.Elapsed()
		}
	}

	out.Streak = streak(focusDays, timeutil.StartOfDay(until))
	return out
}

func streak(days map[time.Time]bool, today time.Time) int {
	d := today
	if !days[d] {
		d = d.AddDate(0, 0, -1)
	}
	n := 0
	for days[d] {
		n++
		d = d.AddDate(0, 0, -1)
	}
	return n
}

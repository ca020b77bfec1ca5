// Package stats prints activity statistics for a window.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/daybook/pkg/app"
	"tableflip.dev/daybook/pkg/timeutil"
)

// Stats prints the summary and per-day table for Window (default 1w).
type Stats struct {
	Service *app.Service
	Window  string
	JSON    bool
	Out     io.Writer
}

type report struct {
	Window         string      `json:"window"`
	Since          time.Time   `json:"since"`
	Until          time.Time   `json:"until"`
	TodosCreated   int         `json:"todos_created"`
	TodosCompleted int         `json:"todos_completed"`
	OpenTodos      int         `json:"open_todos"`
	FocusSessions  int         `json:"focus_sessions"`
	FocusMinutes   int         `json:"focus_minutes"`
	Streak         int         `json:"streak"`
	Days           []reportDay `json:"days"`
	window         time.Duration
}

type reportDay struct {
	Day           string `json:"day"`
	Completed     int    `json:"completed"`
	FocusSessions int    `json:"focus_sessions"`
	FocusMinutes  int    `json:"focus_minutes"`
}

func (s *Stats) Do(ctx context.Context) error {
	if s.Service == nil {
		return errors.New("stats: no service")
	}
	window, label, err := timeutil.ParseWindow(s.Window)
	if err != nil {
		return err
	}
	st, err := s.Service.Stats(ctx, window)
	if err != nil {
		return err
	}

	r := report{
		Window:         label,
		Since:          st.Since,
		Until:          st.Until,
		TodosCreated:   st.TodosCreated,
		TodosCompleted: st.TodosCompleted,
		OpenTodos:      st.OpenTodos,
		FocusSessions:  st.FocusSessions,
		FocusMinutes:   int(st.FocusTime / time.Minute),
		Streak:         st.Streak,
		window:         window,
	}
	for _, d := range st.Days {
		r.Days = append(r.Days, reportDay{
			Day:           d.Day.Format("2006-01-02"),
			Completed:     d.Completed,
			FocusSessions: d.FocusSessions,
			FocusMinutes:  int(d.FocusTime / time.Minute),
		})
	}

	out := s.Out
	if out == nil {
		out = color.Output
	}
	if s.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	s.print(out, r)
	return nil
}

func (s *Stats) print(out io.Writer, r report) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = fmt.Fprintln(out, "")
	_, _ = bold.Fprintf(out, "Last %s", r.Window)
	_, _ = faint.Fprintf(out, "  %s - %s\n\n", r.Since.Format("Jan 2"), r.Until.Format("Jan 2"))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Completed"), r.TodosCompleted)
	tbl.AddRow(bold.Sprint("Created"), r.TodosCreated)
	tbl.AddRow(bold.Sprint("Open"), r.OpenTodos)
	tbl.AddRow(bold.Sprint("Focus sessions"), r.FocusSessions)
	tbl.AddRow(bold.Sprint("Focus time"), timeutil.FormatWindow(time.Duration(r.FocusMinutes)*time.Minute))
	tbl.AddRow(bold.Sprint("Streak"), days(r.Streak))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")

	// a per-day table is only readable for short windows
	if r.window > 31*24*time.Hour {
		return
	}
	most := 0
	for _, d := range r.Days {
		if d.Completed > most {
			most = d.Completed
		}
	}
	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Done"), bold.Sprint("Focus"), "")
	for _, d := range r.Days {
		day, _ := time.Parse("2006-01-02", d.Day)
		tbl.AddRow(day.Format("Mon Jan 2"), d.Completed, d.FocusSessions, bar(d.Completed, most, 20))
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintln(out, "")
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func bar(n, most, width int) string {
	if n <= 0 || most <= 0 {
		return ""
	}
	w := n * width / most
	if w == 0 {
		w = 1
	}
	return color.GreenString(strings.Repeat("█", w))
}

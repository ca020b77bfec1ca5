// Package pomodoro implements the focus/break timer and the session records
// it produces.
package pomodoro

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the phase the timer is counting down.
type Kind int

const (
	Focus Kind = iota
	ShortBreak
	LongBreak
)

func (k Kind) String() string {
	switch k {
	case Focus:
		return "focus"
	case ShortBreak:
		return "short break"
	case LongBreak:
		return "long break"
	default:
		return "unknown"
	}
}

// State is the run state of the current phase.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Config holds phase lengths and how many focus rounds precede a long break.
type Config struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	Rounds     int
}

// DefaultConfig is the classic 25/5/15 cycle with a long break every 4 rounds.
func DefaultConfig() Config {
	return Config{
		Focus:      25 * time.Minute,
		ShortBreak: 5 * time.Minute,
		LongBreak:  15 * time.Minute,
		Rounds:     4,
	}
}

// Normalize fills zero or negative values from DefaultConfig.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.Focus <= 0 {
		c.Focus = def.Focus
	}
	if c.ShortBreak <= 0 {
		c.ShortBreak = def.ShortBreak
	}
	if c.LongBreak <= 0 {
		c.LongBreak = def.LongBreak
	}
	if c.Rounds <= 0 {
		c.Rounds = def.Rounds
	}
	return c
}

// Duration returns the configured length of a phase.
func (c Config) Duration(k Kind) time.Duration {
	switch k {
	case ShortBreak:
		return c.ShortBreak
	case LongBreak:
		return c.LongBreak
	default:
		return c.Focus
	}
}

// Timer is a deadline-driven pomodoro clock. It holds no goroutines; callers
// drive it with Tick.
type Timer struct {
	cfg Config

	kind      Kind
	state     State
	remaining time.Duration
	deadline  time.Time
	started   time.Time
	focusDone int

	todoID    string
	todoTitle string
}

// NewTimer returns an idle timer positioned at the first focus phase.
func NewTimer(cfg Config) *Timer {
	cfg = cfg.Normalize()
	return &Timer{
		cfg:       cfg,
		kind:      Focus,
		remaining: cfg.Focus,
	}
}

func (t *Timer) Config() Config { return t.cfg }
func (t *Timer) Kind() Kind     { return t.kind }
func (t *Timer) State() State   { return t.state }

// FocusRounds is the number of focus phases completed since the last reset.
func (t *Timer) FocusRounds() int { return t.focusDone }

// Task returns the todo attached to the timer, if any.
func (t *Timer) Task() (id, title string) { return t.todoID, t.todoTitle }

// SetTask attaches a todo. An empty id clears it.
func (t *Timer) SetTask(id, title string) {
	t.todoID = id
	t.todoTitle = title
	if id == "" {
		t.todoTitle = ""
	}
}

// Remaining reports the time left in the current phase as of now.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.state != Running {
		return t.remaining
	}
	left := t.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Progress is the elapsed fraction of the current phase in [0,1].
func (t *Timer) Progress(now time.Time) float64 {
	total := t.cfg.Duration(t.kind)
	if total <= 0 {
		return 0
	}
	p := 1 - float64(t.Remaining(now))/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Start begins an idle phase or resumes a paused one.
func (t *Timer) Start(now time.Time) {
	switch t.state {
	case Idle:
		t.started = now
		t.deadline = now.Add(t.remaining)
		t.state = Running
	case Paused:
		t.deadline = now.Add(t.remaining)
		t.state = Running
	}
}

// Pause freezes the remaining time.
func (t *Timer) Pause(now time.Time) {
	if t.state != Running {
		return
	}
	t.remaining = t.Remaining(now)
	t.state = Paused
}

// Toggle starts, pauses or resumes depending on the current state.
func (t *Timer) Toggle(now time.Time) {
	if t.state == Running {
		t.Pause(now)
		return
	}
	t.Start(now)
}

// Tick advances the clock. When the running phase has elapsed it returns the
// finished session and positions the timer, idle, at the next phase.
func (t *Timer) Tick(now time.Time) (*Session, bool) {
	if t.state != Running || now.Before(t.deadline) {
		return nil, false
	}
	s := t.record(t.deadline, true)
	t.advance(true)
	return s, true
}

// Skip abandons the current phase. A phase that had started yields an
// incomplete session. Skipped focus phases do not count towards the long
// break.
func (t *Timer) Skip(now time.Time) *Session {
	var s *Session
	if t.state != Idle {
		s = t.record(now, false)
	}
	t.advance(false)
	return s
}

// Reset returns to an idle first focus phase and forgets completed rounds.
// The attached task is kept.
func (t *Timer) Reset() {
	t.kind = Focus
	t.state = Idle
	t.focusDone = 0
	t.remaining = t.cfg.Focus
	t.deadline = time.Time{}
	t.started = time.Time{}
}

func (t *Timer) advance(completed bool) {
	next := Focus
	if t.kind == Focus {
		next = ShortBreak
		if completed {
			t.focusDone++
			if t.focusDone%t.cfg.Rounds == 0 {
				next = LongBreak
			}
		}
	}
	t.kind = next
	t.state = Idle
	t.remaining = t.cfg.Duration(next)
	t.deadline = time.Time{}
	t.started = time.Time{}
}

func (t *Timer) record(end time.Time, completed bool) *Session {
	return &Session{
		ID:        uuid.NewString(),
		TodoID:    t.todoID,
		Kind:      t.kind,
		Planned:   t.cfg.Duration(t.kind),
		Started:   t.started,
		Ended:     end,
		Completed: completed,
	}
}

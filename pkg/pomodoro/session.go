package pomodoro

import "time"

// Session records one finished or abandoned phase.
type Session struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	TodoID    string        `json:"todo,omitempty"`
	Kind      Kind          `json:"kind"`
	Planned   time.Duration `json:"planned"`
	Started   time.Time     `json:"started"`
	Ended     time.Time     `json:"ended"`
	Completed bool          `json:"completed,omitempty"`
}

// Elapsed is the wall time the phase actually ran, never negative.
func (s *Session) Elapsed() time.Duration {
	if s == nil || s.Started.IsZero() || s.Ended.Before(s.Started) {
		return 0
	}
	return s.Ended.Sub(s.Started)
}

// CountsAsFocus reports whether the session contributes to focus statistics.
func (s *Session) CountsAsFocus() bool {
	return s != nil && s.Kind == Focus && s.Completed
}

// Package auth holds the process-wide authentication state and the local
// account book that mutates it.
package auth

import (
	"sync"
	"time"
)

// Session identifies the signed-in user.
type Session struct {
	UserID   string
	Username string
	SignedIn time.Time
}

// Change is delivered to observers after every effective mutation.
type Change struct {
	Authenticated bool
	Session       Session
}

type observer struct {
	id int
	fn func(Change)
}

// State is the single source of truth for whether a user is signed in. The
// zero value is usable and unauthenticated.
type State struct {
	mu            sync.RWMutex
	authenticated bool
	session       Session

	obsMu     sync.Mutex
	nextID    int
	observers []observer
}

// NewState returns an unauthenticated state.
func NewState() *State {
	return &State{}
}

// IsAuthenticated reports the current value.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Session returns the active session and whether one exists.
func (s *State) Session() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.authenticated
}

// SignIn marks sess as the authenticated user. Signing in the user that is
// already signed in is not a change and notifies nobody.
func (s *State) SignIn(sess Session) {
	s.mu.Lock()
	if s.authenticated && s.session.UserID == sess.UserID {
		s.mu.Unlock()
		return
	}
	s.authenticated = true
	s.session = sess
	s.mu.Unlock()
	s.broadcast(Change{Authenticated: true, Session: sess})
}

// SignOut clears the session.
func (s *State) SignOut() {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = false
	s.session = Session{}
	s.mu.Unlock()
	s.broadcast(Change{})
}

// Subscribe registers fn for change notifications. Observers run on the
// mutating goroutine, in subscription order, before SignIn/SignOut return.
func (s *State) Subscribe(fn func(Change)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.obsMu.Lock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			for i, o := range s.observers {
				if o.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *State) broadcast(c Change) {
	s.obsMu.Lock()
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	s.obsMu.Unlock()
	for _, o := range obs {
		o.fn(c)
	}
}

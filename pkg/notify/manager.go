// Package notify tracks whether the user allows notifications and delivers
// them once allowed.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"pkt.systems/pslog"
)

// Status is the notification authorization state.
type Status int

const (
	StatusNotDetermined Status = iota
	StatusGranted
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusGranted:
		return "granted"
	case StatusDenied:
		return "denied"
	default:
		return "notDetermined"
	}
}

// ParseStatus is the inverse of Status.String. Unknown values are not
// determined.
func ParseStatus(v string) Status {
	switch v {
	case "granted":
		return StatusGranted
	case "denied":
		return StatusDenied
	default:
		return StatusNotDetermined
	}
}

// SettingKey is where the status is persisted.
const SettingKey = "notifications.status"

// ErrNoPrompter is returned by RequestAuthorization when nothing can ask the
// user.
var ErrNoPrompter = errors.New("notify: no prompter configured")

// SettingsStore persists small named values.
type SettingsStore interface {
	Setting(name string) (string, bool, error)
	StoreSetting(name, value string) error
}

// Prompter asks the user for permission and blocks until they answer or ctx
// is done.
type Prompter interface {
	Prompt(ctx context.Context) (bool, error)
}

// Notification is a delivered message.
type Notification struct {
	Title string
	Body  string
}

// Manager owns the authorization status. One instance exists per process.
type Manager struct {
	mu       sync.Mutex
	status   Status
	settings SettingsStore
	prompter Prompter
	deliver  func(Notification)
	log      pslog.Logger
}

// NewManager returns a manager whose status is not determined until
// CheckAuthorizationStatus runs. Notifications ring the terminal bell on
// stderr until SetDeliver replaces that.
func NewManager(settings SettingsStore, logger pslog.Logger) *Manager {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	m := &Manager{
		settings: settings,
		log:      logger,
	}
	m.deliver = bell(os.Stderr)
	return m
}

// SetPrompter installs the component that asks the user.
func (m *Manager) SetPrompter(p Prompter) {
	m.mu.Lock()
	m.prompter = p
	m.mu.Unlock()
}

// SetDeliver replaces how granted notifications are shown.
func (m *Manager) SetDeliver(fn func(Notification)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.deliver = fn
	m.mu.Unlock()
}

// CheckAuthorizationStatus refreshes the status from the settings store.
func (m *Manager) CheckAuthorizationStatus() {
	status := StatusNotDetermined
	if m.settings != nil {
		v, ok, err := m.settings.Setting(SettingKey)
		switch {
		case err != nil:
			m.log.Warn("notify status unreadable", "err", err)
		case ok:
			status = ParseStatus(v)
		}
	}
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

// AuthorizationStatus returns the last checked or decided status.
func (m *Manager) AuthorizationStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// RequestAuthorization asks the user and records the answer. A refusal is a
// normal false result, not an error.
func (m *Manager) RequestAuthorization(ctx context.Context) (bool, error) {
	m.mu.Lock()
	p := m.prompter
	m.mu.Unlock()
	if p == nil {
		return false, ErrNoPrompter
	}

	granted, err := p.Prompt(ctx)
	if err != nil {
		return false, err
	}
	status := StatusDenied
	if granted {
		status = StatusGranted
	}
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	if m.settings != nil {
		if err := m.settings.StoreSetting(SettingKey, status.String()); err != nil {
			m.log.Warn("notify status not saved", "status", status.String(), "err", err)
		}
	}
	return granted, nil
}

// Notify delivers n when notifications are granted and reports whether it did.
func (m *Manager) Notify(n Notification) bool {
	m.mu.Lock()
	status := m.status
	deliver := m.deliver
	m.mu.Unlock()
	if status != StatusGranted {
		m.log.Debug("notify suppressed", "status", status.String(), "title", n.Title)
		return false
	}
	deliver(n)
	return true
}

func bell(w io.Writer) func(Notification) {
	return func(n Notification) {
		_, _ = fmt.Fprintf(w, "\a%s: %s\n", n.Title, n.Body)
	}
}

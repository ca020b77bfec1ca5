package notify

import (
	"context"
	"errors"
	"testing"
)

type memorySettings map[string]string

func (m memorySettings) Setting(name string) (string, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

func (m memorySettings) StoreSetting(name, value string) error {
	m[name] = value
	return nil
}

type countingPrompter struct {
	answer bool
	calls  int
}

func (c *countingPrompter) Prompt(context.Context) (bool, error) {
	c.calls++
	return c.answer, nil
}

func TestCheckAuthorizationStatusReadsSettings(t *testing.T) {
	settings := memorySettings{}
	m := NewManager(settings, nil)
	m.CheckAuthorizationStatus()
	if got := m.AuthorizationStatus(); got != StatusNotDetermined {
		t.Fatalf("expected notDetermined, got %v", got)
	}

	settings[SettingKey] = "denied"
	m.CheckAuthorizationStatus()
	if got := m.AuthorizationStatus(); got != StatusDenied {
		t.Fatalf("expected denied, got %v", got)
	}
}

func TestRequestAuthorizationRecordsAnswer(t *testing.T) {
	settings := memorySettings{}
	prompter := &countingPrompter{answer: false}
	m := NewManager(settings, nil)
	m.SetPrompter(prompter)

	granted, err := m.RequestAuthorization(context.Background())
	if err != nil {
		t.Fatalf("denial must not be an error: %v", err)
	}
	if granted || m.AuthorizationStatus() != StatusDenied {
		t.Fatalf("expected denied, got granted=%v status=%v", granted, m.AuthorizationStatus())
	}
	if settings[SettingKey] != "denied" {
		t.Fatalf("expected status to be persisted, got %q", settings[SettingKey])
	}
}

func TestRequestAuthorizationWithoutPrompter(t *testing.T) {
	m := NewManager(memorySettings{}, nil)
	if _, err := m.RequestAuthorization(context.Background()); !errors.Is(err, ErrNoPrompter) {
		t.Fatalf("expected ErrNoPrompter, got %v", err)
	}
}

func TestNotifyOnlyWhenGranted(t *testing.T) {
	settings := memorySettings{}
	m := NewManager(settings, nil)
	var delivered []Notification
	m.SetDeliver(func(n Notification) { delivered = append(delivered, n) })

	if m.Notify(Notification{Title: "focus done"}) {
		t.Fatalf("must not deliver before permission")
	}
	m.SetPrompter(&countingPrompter{answer: true})
	if _, err := m.RequestAuthorization(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if !m.Notify(Notification{Title: "focus done"}) || len(delivered) != 1 {
		t.Fatalf("expected delivery after grant, got %v", delivered)
	}
}

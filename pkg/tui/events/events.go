package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/notify"
	"tableflip.dev/daybook/pkg/pomodoro"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// AuthChangedMsg forwards an auth.State change into the event loop. The
// program's observer sends it; routers reconcile on receipt.
type AuthChangedMsg struct {
	Change auth.Change
}

// Describe renders the change in a human-friendly format for logs.
func (m AuthChangedMsg) Describe() string {
	return fmt.Sprintf(`authenticated:%t user:%q`, m.Change.Authenticated, m.Change.Session.Username)
}

// StartPomodoroMsg asks the tab container to switch to the timer with the
// given todo attached.
type StartPomodoroMsg struct {
	Component ComponentID
	TodoID    string
	Title     string
}

// Describe renders the request for logs.
func (m StartPomodoroMsg) Describe() string {
	return fmt.Sprintf(`component:%q todo:%q title:%q`, m.Component, m.TodoID, m.Title)
}

// StartPomodoroCmd wraps StartPomodoroMsg in a tea.Cmd.
func StartPomodoroCmd(component ComponentID, todoID, title string) tea.Cmd {
	return func() tea.Msg {
		return StartPomodoroMsg{Component: component, TodoID: todoID, Title: title}
	}
}

// SessionRecordedMsg announces a stored pomodoro session so statistics can
// refresh.
type SessionRecordedMsg struct {
	Component ComponentID
	Session   *pomodoro.Session
}

// Describe renders the session for logs.
func (m SessionRecordedMsg) Describe() string {
	if m.Session == nil {
		return fmt.Sprintf(`component:%q session:nil`, m.Component)
	}
	return fmt.Sprintf(`component:%q kind:%q completed:%t`, m.Component, m.Session.Kind, m.Session.Completed)
}

// NotificationMsg carries a delivered notification to the status line.
type NotificationMsg struct {
	Notification notify.Notification
}

// StatusMsg sets the root status line. Err, when set, is shown instead of
// Text.
type StatusMsg struct {
	Component ComponentID
	Text      string
	Err       error
}

// Describe renders the status for logs.
func (m StatusMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`component:%q err:%q`, m.Component, m.Err.Error())
	}
	return fmt.Sprintf(`component:%q text:%q`, m.Component, m.Text)
}

// StatusCmd wraps StatusMsg in a tea.Cmd.
func StatusCmd(component ComponentID, text string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Component: component, Text: text}
	}
}

// ErrorCmd reports err on the status line.
func ErrorCmd(component ComponentID, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return StatusMsg{Component: component, Err: err}
	}
}

// ThemeChangedMsg tells components to rebuild cached styles.
type ThemeChangedMsg struct {
	Scheme string
}

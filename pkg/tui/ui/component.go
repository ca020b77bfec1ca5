package ui

import tea "github.com/charmbracelet/bubbletea"

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Activatable components are told when they become the interactive one.
// Inactive components stay mounted and keep receiving non-key messages.
type Activatable interface {
	SetActive(active bool) tea.Cmd
}

// InputCapturer reports that the component is collecting text and wants
// every key, including the ones containers would otherwise intercept.
type InputCapturer interface {
	CapturingInput() bool
}

// Unmounter releases background work (watches, contexts) when a component is
// dropped from the tree.
type Unmounter interface {
	Unmount()
}

// Capturing reports whether c is currently capturing input.
func Capturing(c Component) bool {
	if ic, ok := c.(InputCapturer); ok {
		return ic.CapturingInput()
	}
	return false
}

// Unmount calls Unmount on c when it supports it.
func Unmount(c Component) {
	if u, ok := c.(Unmounter); ok {
		u.Unmount()
	}
}

// SetActive calls SetActive on c when it supports it.
func SetActive(c Component, active bool) tea.Cmd {
	if a, ok := c.(Activatable); ok {
		return a.SetActive(active)
	}
	return nil
}

// Package theme owns the colour scheme preference and the Lip Gloss styles
// derived from it.
package theme

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Scheme is the user's colour-scheme preference.
type Scheme int

const (
	SchemeAuto Scheme = iota
	SchemeDark
	SchemeLight
)

func (s Scheme) String() string {
	switch s {
	case SchemeDark:
		return "dark"
	case SchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// ParseScheme accepts auto, dark or light; anything else is auto.
func ParseScheme(v string) Scheme {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "dark":
		return SchemeDark
	case "light":
		return SchemeLight
	default:
		return SchemeAuto
	}
}

// Palette holds the raw colours a scheme resolves to. Hex values so they can
// be blended.
type Palette struct {
	Foreground string
	Background string
	Muted      string
	Accent     string
	Success    string
	Warning    string
	Error      string
}

// Theme centralizes Lip Gloss styles for the UI.
type Theme struct {
	Palette Palette

	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style

	Tabs  TabTheme
	List  ListTheme
	Panel PanelTheme
	Modal PanelTheme
}

// TabTheme styles the tab bar.
type TabTheme struct {
	Bar      lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Disabled lipgloss.Style
}

// ListTheme styles list rows.
type ListTheme struct {
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Done     lipgloss.Style
	Priority lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

var (
	darkPalette = Palette{
		Foreground: "#E4E4E4",
		Background: "#1C1C1C",
		Muted:      "#8A8A8A",
		Accent:     "#FF87D7",
		Success:    "#87D787",
		Warning:    "#FFD75F",
		Error:      "#FF5F5F",
	}
	lightPalette = Palette{
		Foreground: "#262626",
		Background: "#FAFAFA",
		Muted:      "#6C6C6C",
		Accent:     "#AF005F",
		Success:    "#008700",
		Warning:    "#AF8700",
		Error:      "#D70000",
	}
)

// Build returns the theme for a resolved (dark or light) scheme.
func Build(s Scheme) Theme {
	p := darkPalette
	if s == SchemeLight {
		p = lightPalette
	}
	fg := lipgloss.Color(p.Foreground)
	muted := lipgloss.Color(p.Muted)
	accent := lipgloss.Color(p.Accent)

	return Theme{
		Palette: p,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(fg),
		Body:    lipgloss.NewStyle().Foreground(fg),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Accent:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Status:  lipgloss.NewStyle().Foreground(muted),
		Tabs: TabTheme{
			Bar: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(muted),
			Active:   lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1),
			Inactive: lipgloss.NewStyle().Foreground(fg).Padding(0, 1),
			Disabled: lipgloss.NewStyle().Foreground(muted).Faint(true).Padding(0, 1),
		},
		List: ListTheme{
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Normal:   lipgloss.NewStyle().Foreground(fg),
			Done:     lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
			Priority: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(muted).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true).Foreground(accent),
			Body:  lipgloss.NewStyle().Foreground(fg),
		},
		Modal: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}

// Manager holds the process-wide scheme preference. Create one per process
// and pass it down.
type Manager struct {
	mu       sync.RWMutex
	scheme   Scheme
	detect   func() bool
	resolved Scheme
	theme    Theme
}

// NewManager resolves scheme immediately. detectDark reports whether the
// terminal background is dark and is consulted for SchemeAuto; nil asks the
// terminal through termenv.
func NewManager(scheme Scheme, detectDark func() bool) *Manager {
	if detectDark == nil {
		detectDark = termenv.HasDarkBackground
	}
	m := &Manager{detect: detectDark}
	m.SetScheme(scheme)
	return m
}

// Scheme returns the preference, which may be auto.
func (m *Manager) Scheme() Scheme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scheme
}

// Resolved returns dark or light.
func (m *Manager) Resolved() Scheme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolved
}

// Theme returns the styles for the resolved scheme.
func (m *Manager) Theme() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// SetScheme changes the preference and rebuilds styles.
func (m *Manager) SetScheme(s Scheme) {
	resolved := s
	if s == SchemeAuto {
		resolved = SchemeLight
		if m.detect() {
			resolved = SchemeDark
		}
	}
	th := Build(resolved)
	m.mu.Lock()
	m.scheme = s
	m.resolved = resolved
	m.theme = th
	m.mu.Unlock()
}

// Cycle moves auto -> dark -> light -> auto and returns the new preference.
func (m *Manager) Cycle() Scheme {
	next := (m.Scheme() + 1) % 3
	m.SetScheme(next)
	return next
}

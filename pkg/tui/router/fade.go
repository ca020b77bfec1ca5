package router

import (
	"regexp"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	fadeSteps    = 6
	fadeInterval = 40 * time.Millisecond
)

type fadeTickMsg struct {
	gen int
}

// fade ramps the incoming view's foreground from the background colour to
// the normal text colour. Only the new subtree is ever drawn.
type fade struct {
	gen  int
	step int
	from colorful.Color
	to   colorful.Color
}

func (f *fade) start(fromHex, toHex string) tea.Cmd {
	from, err := colorful.Hex(fromHex)
	if err != nil {
		return nil
	}
	to, err := colorful.Hex(toHex)
	if err != nil {
		return nil
	}
	f.gen++
	f.step = 1
	f.from = from
	f.to = to
	return f.tick()
}

func (f *fade) tick() tea.Cmd {
	gen := f.gen
	return tea.Tick(fadeInterval, func(time.Time) tea.Msg {
		return fadeTickMsg{gen: gen}
	})
}

func (f *fade) advance(msg fadeTickMsg) tea.Cmd {
	if msg.gen != f.gen || !f.running() {
		return nil
	}
	f.step++
	if !f.running() {
		return nil
	}
	return f.tick()
}

func (f *fade) running() bool {
	return f.step > 0 && f.step < fadeSteps
}

func (f *fade) color() string {
	t := float64(f.step) / float64(fadeSteps)
	return f.from.BlendLab(f.to, t).Clamped().Hex()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func (f *fade) render(view string) string {
	plain := ansiPattern.ReplaceAllString(view, "")
	return lipgloss.NewStyle().Foreground(lipgloss.Color(f.color())).Render(plain)
}

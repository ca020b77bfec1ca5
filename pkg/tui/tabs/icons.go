package tabs

// IconVariant is the glyph style of a tab icon.
type IconVariant int

const (
	Outline IconVariant = iota
	Filled
)

func (v IconVariant) String() string {
	if v == Filled {
		return "filled"
	}
	return "outline"
}

// icons maps each tab to its outline and filled glyphs.
var icons = map[Tab][2]string{
	Todo:       {"☐", "☑"},
	Calendar:   {"▢", "▣"},
	Pomodoro:   {"○", "●"},
	Statistics: {"▱", "▰"},
	Profile:    {"◇", "◆"},
}

func glyph(t Tab, v IconVariant) string {
	pair, ok := icons[t]
	if !ok {
		return "?"
	}
	return pair[v]
}

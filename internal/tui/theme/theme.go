// Package theme defines color themes for the paisa TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row, focused field
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Focus and modal borders
	TextDim      lipgloss.Color // Hints, disabled actions
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Green        lipgloss.Color
	Orange       lipgloss.Color
	Red          lipgloss.Color
}

// Active is the currently selected theme.
var Active = DarkTeal

// DarkTeal is the default theme: charcoal surfaces with a teal accent.
var DarkTeal = Theme{
	Name:         "dark-teal",
	Background:   lipgloss.Color("#232629"),
	Surface:      lipgloss.Color("#31363B"),
	SurfaceHover: lipgloss.Color("#3B4248"),
	Border:       lipgloss.Color("#4F5B62"),
	BorderAccent: lipgloss.Color("#1DE9B6"),
	TextDim:      lipgloss.Color("#6C7A82"),
	TextMuted:    lipgloss.Color("#A5B1B8"),
	TextPrimary:  lipgloss.Color("#FFFFFF"),
	Accent:       lipgloss.Color("#1DE9B6"),
	AccentBright: lipgloss.Color("#6EFFE8"),
	Green:        lipgloss.Color("#69F0AE"),
	Orange:       lipgloss.Color("#FFAB40"),
	Red:          lipgloss.Color("#FF5252"),
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{DarkTeal, FlexokiDark, Terminal}

// Names returns the name of every available theme.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to DarkTeal.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return DarkTeal
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

package viz

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/eyespot/internal/eyespot"
)

// Theme defines the pigment colors and the chrome around them.
type Theme struct {
	Name    string
	Pigment [4]lipgloss.Color // indexed by eyespot.Pigment
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
}

// Available themes
var (
	// ThemeClassic matches the usual eyespot rendering: white background,
	// tan precursor, black and yellow rings.
	ThemeClassic = Theme{
		Name:    "classic",
		Pigment: [4]lipgloss.Color{"#ffffff", "#d2b48c", "#000000", "#ffff00"},
		Accent:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
	}

	ThemeDusk = Theme{
		Name:    "dusk",
		Pigment: [4]lipgloss.Color{"#2d1b2e", "#8b6b8c", "#ff6b6b", "#feca57"},
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Pigment: [4]lipgloss.Color{"#001a33", "#4488aa", "#0077be", "#ffd700"},
		Accent:  lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Pigment: [4]lipgloss.Color{"#000000", "#555555", "#aaaaaa", "#ffffff"},
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
	}

	// Default theme
	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeDusk,
		ThemeOcean,
		ThemeMono,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// Palette converts the pigment colors to an image palette whose index is
// the eyespot.Pigment value.
func (t Theme) Palette() color.Palette {
	p := make(color.Palette, len(t.Pigment))
	for i, c := range t.Pigment {
		r, g, b := parseHex(string(c))
		p[i] = color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
	}
	return p
}

// Color returns the lipgloss color of one pigment class.
func (t Theme) Color(p eyespot.Pigment) lipgloss.Color {
	return t.Pigment[p]
}

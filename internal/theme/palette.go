package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors the screens draw with.
type Palette struct {
	Background    lipgloss.Color
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Text          lipgloss.Color
	TextSecondary lipgloss.Color
	Accent        lipgloss.Color
	Border        lipgloss.Color
	Success       lipgloss.Color
	Danger        lipgloss.Color
	Warning       lipgloss.Color
}

var (
	lightPalette = Palette{
		Background:    "#F0EEFF",
		Primary:       "#0A84FF",
		Secondary:     "#E1DCFF",
		Text:          "#333333",
		TextSecondary: "#666666",
		Accent:        "#614AE1",
		Border:        "#E5E5EA",
		Success:       "#00C851",
		Danger:        "#FF4444",
		Warning:       "#FFBB33",
	}

	darkPalette = Palette{
		Background:    "#121212",
		Primary:       "#0A84FF",
		Secondary:     "#1C1C1E",
		Text:          "#FFFFFF",
		TextSecondary: "#EBEBF5",
		Accent:        "#7E6EE7",
		Border:        "#38383A",
		Success:       "#00C851",
		Danger:        "#FF4444",
		Warning:       "#FFBB33",
	}
)

// PaletteFor returns the colors for mode. Unknown modes get light.
func PaletteFor(mode Mode) Palette {
	if mode == Dark {
		return darkPalette
	}
	return lightPalette
}

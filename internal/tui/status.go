package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders the top status bar: app, language, direction and the
// signed-in user.
func StatusBar(style lipgloss.Style, app, language, direction, user string, width int, align lipgloss.Position) string {
	text := fmt.Sprintf("  %s · %s (%s) · %s  ", app, language, direction, user)
	return style.Width(width).Align(align).Render(text)
}

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mafqudat/mafqudat/internal/theme"
)

// styles are rebuilt whenever the theme changes.
type styles struct {
	statusBar   lipgloss.Style
	userLabel   lipgloss.Style
	systemMsg   lipgloss.Style
	errorMsg    lipgloss.Style
	successMsg  lipgloss.Style
	adTitle     lipgloss.Style
	muted       lipgloss.Style
	separator   lipgloss.Style
	inputPrompt lipgloss.Style
	spinner     lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		statusBar: lipgloss.NewStyle().
			Background(p.Accent).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		userLabel: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		systemMsg: lipgloss.NewStyle().
			Foreground(p.TextSecondary).
			Italic(true),
		errorMsg: lipgloss.NewStyle().
			Foreground(p.Danger),
		successMsg: lipgloss.NewStyle().
			Foreground(p.Success),
		adTitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(p.TextSecondary),
		separator: lipgloss.NewStyle().
			Foreground(p.Border),
		inputPrompt: lipgloss.NewStyle().
			Foreground(p.Primary),
		spinner: lipgloss.NewStyle().
			Foreground(p.Warning),
	}
}

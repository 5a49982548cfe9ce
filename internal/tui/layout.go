package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Layout is the terminal's text direction. It implements i18n.Platform:
// right-to-left languages are drawn right aligned. The terminal re-renders
// every frame, so a switch never needs a restart.
type Layout struct {
	mu  sync.RWMutex
	rtl bool
}

func (l *Layout) IsRTL() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rtl
}

func (l *Layout) SetRTL(rtl bool) (bool, error) {
	l.mu.Lock()
	l.rtl = rtl
	l.mu.Unlock()
	return false, nil
}

// Align returns the horizontal alignment for the current direction.
func (l *Layout) Align() lipgloss.Position {
	if l.IsRTL() {
		return lipgloss.Right
	}
	return lipgloss.Left
}

// Arrow points "forward" in the reading direction.
func (l *Layout) Arrow() string {
	if l.IsRTL() {
		return "◂"
	}
	return "▸"
}

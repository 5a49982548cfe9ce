// Package theme tracks the light/dark preference and exposes the app
// palettes as lipgloss colors.
package theme

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/mafqudat/mafqudat/internal/prefs"
)

// Mode is a color scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Device returns the device preference for a config setting: "light" and
// "dark" are fixed, anything else asks the terminal.
func Device(setting string) func() Mode {
	if m, err := ParseMode(setting); err == nil {
		return func() Mode { return m }
	}
	return func() Mode {
		if lipgloss.HasDarkBackground() {
			return Dark
		}
		return Light
	}
}

// Manager owns the active mode.
type Manager struct {
	store  prefs.Store
	device func() Mode

	mu   sync.RWMutex
	mode Mode
}

// NewManager returns a Manager starting in light mode until Load runs.
func NewManager(store prefs.Store, device func() Mode) *Manager {
	if device == nil {
		device = func() Mode { return Light }
	}
	return &Manager{store: store, device: device, mode: Light}
}

// Load picks the stored preference if there is a valid one, otherwise the
// device preference. Nothing is written.
func (m *Manager) Load(ctx context.Context) Mode {
	mode := m.device()
	if v, ok := m.store.Get(ctx, prefs.KeyTheme); ok {
		if stored, err := ParseMode(v); err == nil {
			mode = stored
		}
	}
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	return mode
}

// Mode returns the active mode.
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Set persists mode and makes it active.
func (m *Manager) Set(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if err := m.store.Set(ctx, prefs.KeyTheme, string(mode)); err != nil {
		return err
	}
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	return nil
}

// Toggle flips between light and dark and persists the result.
func (m *Manager) Toggle(ctx context.Context) (Mode, error) {
	next := Dark
	if m.Mode() == Dark {
		next = Light
	}
	if err := m.Set(ctx, next); err != nil {
		return m.Mode(), err
	}
	return next, nil
}

// Palette returns the active mode's colors.
func (m *Manager) Palette() Palette {
	return PaletteFor(m.Mode())
}

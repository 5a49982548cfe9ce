package i18n

import (
	"fmt"
	"sync"
)

// Platform is the host layout engine whose text direction we control.
type Platform interface {
	IsRTL() bool
	// SetRTL switches direction. restartRequired reports that the host
	// needs a restart before mirrored layouts fully render.
	SetRTL(rtl bool) (restartRequired bool, err error)
}

// ApplyResult describes what Apply did.
type ApplyResult struct {
	RTL             bool
	Applied         bool // the platform flag was changed
	RestartRequired bool
}

// DirectionController keeps the platform direction in step with the
// active language.
type DirectionController struct {
	mu       sync.Mutex
	platform Platform
}

// NewDirectionController wraps p.
func NewDirectionController(p Platform) *DirectionController {
	return &DirectionController{platform: p}
}

// Apply sets the platform direction for code. The platform is touched only
// when its current flag differs, so repeated calls are no-ops.
func (d *DirectionController) Apply(code string) (ApplyResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := ApplyResult{RTL: IsRTL(code)}
	if d.platform.IsRTL() == res.RTL {
		return res, nil
	}
	restart, err := d.platform.SetRTL(res.RTL)
	if err != nil {
		return res, fmt.Errorf("setting direction for %s: %w", code, err)
	}
	res.Applied = true
	res.RestartRequired = restart
	return res, nil
}

// StaticPlatform is an in-memory Platform for headless runs and tests.
type StaticPlatform struct {
	mu  sync.Mutex
	rtl bool
	// RequireRestart is returned from every SetRTL call.
	RequireRestart bool
	calls          int
}

func (p *StaticPlatform) IsRTL() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rtl
}

func (p *StaticPlatform) SetRTL(rtl bool) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rtl = rtl
	p.calls++
	return p.RequireRestart, nil
}

// Calls returns how many times SetRTL ran.
func (p *StaticPlatform) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

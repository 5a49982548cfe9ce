package i18n

import (
	"context"

	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/prefs"
)

// Source says where a resolved language came from.
type Source string

const (
	SourceStored  Source = "stored"
	SourceDevice  Source = "device"
	SourceDefault Source = "default"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Code   string
	Source Source
}

// Resolver picks the effective language for this run.
type Resolver struct {
	Store prefs.Store
	// DeviceLocale returns the OS locale, e.g. "ku-IQ". Nil means none.
	DeviceLocale func() string
	// Default must be a supported code; anything else means DefaultLanguage.
	Default string
	Log     *zap.Logger
}

// Resolve applies, in order: an explicitly selected stored language, the
// device locale's primary subtag, then the default. A code that was not
// explicitly selected is written back under KeyLanguage so later runs start
// from the same value; the explicit flag is left alone.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	stored, ok := r.Store.Get(ctx, prefs.KeyLanguage)
	if ok && IsSupported(stored) && prefs.GetBool(ctx, r.Store, prefs.KeyHasLanguage) {
		return Resolution{Code: stored, Source: SourceStored}
	}

	res := Resolution{Code: r.fallback(), Source: SourceDefault}
	if r.DeviceLocale != nil {
		if code := PrimarySubtag(r.DeviceLocale()); IsSupported(code) {
			res = Resolution{Code: code, Source: SourceDevice}
		}
	}

	if stored != res.Code {
		if err := r.Store.Set(ctx, prefs.KeyLanguage, res.Code); err != nil {
			log.Warn("persisting resolved language", zap.String("code", res.Code), zap.Error(err))
		}
	}
	log.Debug("language resolved", zap.String("code", res.Code), zap.String("source", string(res.Source)))
	return res
}

func (r *Resolver) fallback() string {
	if IsSupported(r.Default) {
		return r.Default
	}
	return DefaultLanguage
}

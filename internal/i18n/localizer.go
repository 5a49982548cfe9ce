package i18n

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/prefs"
)

// ErrUnsupportedLanguage is returned for codes without a catalog.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Options configures Bootstrap.
type Options struct {
	Store    prefs.Store
	Platform Platform
	// Catalog defaults to the embedded catalogs.
	Catalog      *Catalog
	DeviceLocale func() string
	Default      string
	Logger       *zap.Logger
}

// Localizer ties the preference store, direction controller and catalog
// together. Screens hold a *Localizer instead of reaching for globals.
type Localizer struct {
	store      prefs.Store
	catalog    *Catalog
	direction  *DirectionController
	log        *zap.Logger
	resolution Resolution
	current    atomic.Pointer[Translator]
}

// Bootstrap resolves the language, applies its direction and activates its
// catalog, in that order.
func Bootstrap(ctx context.Context, opts Options) (*Localizer, error) {
	if opts.Store == nil {
		return nil, errors.New("i18n: preference store is required")
	}
	if opts.Platform == nil {
		opts.Platform = &StaticPlatform{}
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := &Resolver{
		Store:        opts.Store,
		DeviceLocale: opts.DeviceLocale,
		Default:      opts.Default,
		Log:          opts.Logger,
	}
	res := r.Resolve(ctx)

	l := &Localizer{
		store:      opts.Store,
		catalog:    opts.Catalog,
		direction:  NewDirectionController(opts.Platform),
		log:        opts.Logger,
		resolution: res,
	}
	if _, err := l.direction.Apply(res.Code); err != nil {
		return nil, err
	}
	l.current.Store(l.catalog.Translator(res.Code))

	l.log.Info("localization ready",
		zap.String("language", res.Code),
		zap.String("source", string(res.Source)),
		zap.Bool("rtl", IsRTL(res.Code)))
	return l, nil
}

// Resolution reports how the startup language was chosen.
func (l *Localizer) Resolution() Resolution { return l.resolution }

// Language returns the active language code.
func (l *Localizer) Language() string { return l.current.Load().Language() }

// IsRTL reports whether the active language is right to left.
func (l *Localizer) IsRTL() bool { return IsRTL(l.Language()) }

// Platform returns the platform whose direction the localizer drives.
func (l *Localizer) Platform() Platform { return l.direction.platform }

// Translator returns the active translator. Hold on to it for a consistent
// view across several lookups.
func (l *Localizer) Translator() *Translator { return l.current.Load() }

func (l *Localizer) Translate(key string, opts ...Option) Translation {
	return l.current.Load().Translate(key, opts...)
}

func (l *Localizer) T(key string, opts ...Option) string {
	return l.current.Load().T(key, opts...)
}

func (l *Localizer) Lookup(key string, opts ...Option) (string, error) {
	return l.current.Load().Lookup(key, opts...)
}

// ChangeLanguage records code as the user's explicit choice, applies its
// direction and then swaps the active catalog. Each step finishes before
// the next starts.
func (l *Localizer) ChangeLanguage(ctx context.Context, code string) (ApplyResult, error) {
	if !IsSupported(code) {
		return ApplyResult{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	if err := l.store.Set(ctx, prefs.KeyLanguage, code); err != nil {
		return ApplyResult{}, fmt.Errorf("saving language: %w", err)
	}
	if err := prefs.SetBool(ctx, l.store, prefs.KeyHasLanguage, true); err != nil {
		return ApplyResult{}, fmt.Errorf("saving language flag: %w", err)
	}

	res, err := l.direction.Apply(code)
	if err != nil {
		return res, err
	}

	l.current.Store(l.catalog.Translator(code))
	l.log.Info("language changed",
		zap.String("language", code),
		zap.Bool("rtl", res.RTL),
		zap.Bool("restart_required", res.RestartRequired))
	return res, nil
}

// ResetLanguage forgets the explicit selection so the language picker runs
// again on the next start. The active language is unchanged.
func (l *Localizer) ResetLanguage(ctx context.Context) error {
	if err := l.store.Remove(ctx, prefs.KeyLanguage); err != nil {
		return err
	}
	if err := l.store.Remove(ctx, prefs.KeyHasLanguage); err != nil {
		return err
	}
	l.log.Info("language selection reset")
	return nil
}

// HasExplicitSelection reports whether the user has picked a language.
func (l *Localizer) HasExplicitSelection(ctx context.Context) bool {
	code, ok := l.store.Get(ctx, prefs.KeyLanguage)
	return ok && IsSupported(code) && prefs.GetBool(ctx, l.store, prefs.KeyHasLanguage)
}

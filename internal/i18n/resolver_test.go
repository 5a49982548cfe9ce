package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mafqudat/mafqudat/internal/prefs"
)

func device(locale string) func() string {
	return func() string { return locale }
}

func TestResolveExplicitStoredWins(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(ctx, prefs.KeyLanguage, English))
	require.NoError(t, prefs.SetBool(ctx, store, prefs.KeyHasLanguage, true))

	for _, loc := range []string{"ku-IQ", "ar_IQ.UTF-8", "fr-FR", ""} {
		r := &Resolver{Store: store, DeviceLocale: device(loc)}
		assert.Equal(t, Resolution{Code: English, Source: SourceStored}, r.Resolve(ctx), loc)
	}
}

func TestResolveDeviceLocale(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()

	r := &Resolver{Store: store, DeviceLocale: device("ku-IQ")}
	assert.Equal(t, Resolution{Code: Kurdish, Source: SourceDevice}, r.Resolve(ctx))
}

func TestResolveUnsupportedDeviceUsesDefault(t *testing.T) {
	ctx := context.Background()

	r := &Resolver{Store: prefs.NewMemoryStore(), DeviceLocale: device("fr-FR")}
	assert.Equal(t, Resolution{Code: Arabic, Source: SourceDefault}, r.Resolve(ctx))

	r = &Resolver{Store: prefs.NewMemoryStore(), DeviceLocale: device("fr-FR"), Default: English}
	assert.Equal(t, Resolution{Code: English, Source: SourceDefault}, r.Resolve(ctx))

	r = &Resolver{Store: prefs.NewMemoryStore(), Default: "xx"}
	assert.Equal(t, Resolution{Code: DefaultLanguage, Source: SourceDefault}, r.Resolve(ctx))
}

func TestResolveStoredWithoutFlagIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(ctx, prefs.KeyLanguage, English))

	r := &Resolver{Store: store, DeviceLocale: device("ku-IQ")}
	assert.Equal(t, Resolution{Code: Kurdish, Source: SourceDevice}, r.Resolve(ctx))
}

func TestResolveUnsupportedStoredIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(ctx, prefs.KeyLanguage, "fr"))
	require.NoError(t, prefs.SetBool(ctx, store, prefs.KeyHasLanguage, true))

	r := &Resolver{Store: store, DeviceLocale: device("en-GB")}
	assert.Equal(t, Resolution{Code: English, Source: SourceDevice}, r.Resolve(ctx))
}

func TestResolvePersistsWithoutExplicitFlag(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()

	r := &Resolver{Store: store, DeviceLocale: device("ku-IQ")}
	r.Resolve(ctx)

	code, ok := store.Get(ctx, prefs.KeyLanguage)
	assert.True(t, ok)
	assert.Equal(t, Kurdish, code)
	_, ok = store.Get(ctx, prefs.KeyHasLanguage)
	assert.False(t, ok, "explicit flag must not be set by resolution")
}

package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mafqudat/mafqudat/internal/logging"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sq, err := OpenSQLite(filepath.Join(dir, "prefs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(dir, "prefs.yaml"), nil),
		"sqlite": sq,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Get(ctx, KeyLanguage)
			assert.False(t, ok, "absent key")

			require.NoError(t, s.Set(ctx, KeyLanguage, "ku"))
			v, ok := s.Get(ctx, KeyLanguage)
			assert.True(t, ok)
			assert.Equal(t, "ku", v)

			// last write wins
			require.NoError(t, s.Set(ctx, KeyLanguage, "en"))
			v, _ = s.Get(ctx, KeyLanguage)
			assert.Equal(t, "en", v)

			require.NoError(t, s.Remove(ctx, KeyLanguage))
			_, ok = s.Get(ctx, KeyLanguage)
			assert.False(t, ok, "removed key")

			assert.NoError(t, s.Remove(ctx, "never-set"))
		})
	}
}

func TestStoreKeepsKeysIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, KeyLanguage, "ar"))
			require.NoError(t, s.Set(ctx, KeyTheme, "dark"))
			require.NoError(t, s.Remove(ctx, KeyLanguage))

			v, ok := s.Get(ctx, KeyTheme)
			assert.True(t, ok)
			assert.Equal(t, "dark", v)
		})
	}
}

func TestBoolHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.False(t, GetBool(ctx, s, KeyHasLanguage))

	require.NoError(t, SetBool(ctx, s, KeyHasLanguage, true))
	v, _ := s.Get(ctx, KeyHasLanguage)
	assert.Equal(t, "true", v)
	assert.True(t, GetBool(ctx, s, KeyHasLanguage))

	require.NoError(t, SetBool(ctx, s, KeyHasLanguage, false))
	v, _ = s.Get(ctx, KeyHasLanguage)
	assert.Equal(t, "false", v)
	assert.False(t, GetBool(ctx, s, KeyHasLanguage))

	require.NoError(t, s.Set(ctx, KeyHasLanguage, "yes"))
	assert.False(t, GetBool(ctx, s, KeyHasLanguage), "only the literal true counts")
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	require.NoError(t, NewFileStore(path, nil).Set(ctx, KeyUserToken, "tok"))

	v, ok := NewFileStore(path, nil).Get(ctx, KeyUserToken)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreCorruptReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not: [yaml"), 0o600))

	log, logs := logging.NewObserved(zapcore.WarnLevel)
	s := NewFileStore(path, log)

	_, ok := s.Get(ctx, KeyLanguage)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("prefs read failed").Len())

	// a write recovers the file
	require.NoError(t, s.Set(ctx, KeyLanguage, "ar"))
	v, ok := s.Get(ctx, KeyLanguage)
	assert.True(t, ok)
	assert.Equal(t, "ar", v)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTheme, "light"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s.Close()

	v, ok := s.Get(ctx, KeyTheme)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestSQLiteStoreAppliesPragmas(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, s.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)

	var sync int
	require.NoError(t, s.db.QueryRow(`PRAGMA synchronous`).Scan(&sync))
	assert.Equal(t, 1, sync) // NORMAL
}

func TestSQLiteStoreClosedReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTheme, "light"))
	require.NoError(t, s.Close())

	_, ok := s.Get(ctx, KeyTheme)
	assert.False(t, ok)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ", nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open("", dir, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(BackendMemory, dir, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(BackendSQLite, dir, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "prefs.db"))

	_, err = Open("redis", dir, nil)
	assert.Error(t, err)
}

// Package prefs persists small key/value preferences such as the selected
// language, the theme and the auth session.
//
// Reads never fail: a backend error is logged and reported as "absent".
// Writes are last-write-wins per key.
package prefs

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// Well-known keys.
const (
	KeyLanguage      = "selected-language"
	KeyHasLanguage   = "has-selected-language"
	KeyTheme         = "theme-preference"
	KeyUserToken     = "userToken"
	KeyUserData      = "userData"
	KeyNotifications = "notifications-enabled"
	KeyLocation      = "location-enabled"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a durable key/value preference store.
type Store interface {
	// Get returns the stored value and true, or "" and false if absent.
	Get(ctx context.Context, key string) (string, bool)
	// Set creates or overwrites key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Open selects a backend by name. dir holds the on-disk files.
func Open(backend, dir string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(filepath.Join(dir, "prefs.yaml"), log), nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "prefs.db"), log)
	default:
		return nil, fmt.Errorf("unknown preference backend %q", backend)
	}
}

// GetBool reports whether key holds the literal "true".
func GetBool(ctx context.Context, s Store, key string) bool {
	v, ok := s.Get(ctx, key)
	return ok && v == "true"
}

// SetBool stores "true" or "false" under key.
func SetBool(ctx context.Context, s Store, key string, v bool) error {
	if v {
		return s.Set(ctx, key, "true")
	}
	return s.Set(ctx, key, "false")
}

// Package session keeps the signed-in user's token and profile in the
// preference store and runs the auth calls that change them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/api"
	"github.com/mafqudat/mafqudat/internal/logging"
	"github.com/mafqudat/mafqudat/internal/prefs"
)

// ErrSessionExpired is returned once the server rejects the stored token.
// The session has already been cleared when callers see it.
var ErrSessionExpired = errors.New("session expired")

// Authenticator is the subset of the API client the Manager drives.
type Authenticator interface {
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, code string) (*api.AuthResult, error)
	CompleteRegistration(ctx context.Context, reg api.Registration) (*api.AuthResult, error)
	Login(ctx context.Context, phone, password string) (*api.AuthResult, error)
}

// Profile is what a verified user fills in to finish registration.
type Profile struct {
	PhoneNumber     string
	FirstName       string
	LastName        string
	Email           string
	BirthDate       string // YYYY-MM-DD
	Password        string
	ConfirmPassword string
}

// Credentials log an existing user in.
type Credentials struct {
	PhoneNumber string
	Password    string
}

// Tokens reads the bearer token straight from a store. The API client is
// built with it before any Manager exists.
type Tokens struct {
	Store prefs.Store
}

// Token implements api.TokenSource.
func (t Tokens) Token(ctx context.Context) (string, bool) {
	v, ok := t.Store.Get(ctx, prefs.KeyUserToken)
	return v, ok && v != ""
}

// Manager owns the persisted session.
type Manager struct {
	store prefs.Store
	auth  Authenticator
	log   *zap.Logger

	// mu keeps token and user data written as a pair.
	mu sync.Mutex
}

// NewManager creates a Manager. A nil logger discards output.
func NewManager(store prefs.Store, auth Authenticator, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, auth: auth, log: log}
}

// Token implements api.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	return Tokens{Store: m.store}.Token(ctx)
}

// IsAuthenticated reports whether a token is stored.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, ok := m.Token(ctx)
	return ok
}

// User returns the stored user record. Unreadable data counts as absent.
func (m *Manager) User(ctx context.Context) (*api.User, bool) {
	raw, ok := m.store.Get(ctx, prefs.KeyUserData)
	if !ok || raw == "" {
		return nil, false
	}
	var u api.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.log.Warn("stored user data unreadable", zap.Error(err))
		return nil, false
	}
	return &u, true
}

// SendOTP validates phone and asks the server to text a code to it.
func (m *Manager) SendOTP(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if err := check(func(fe FieldErrors) { fe.phone(phone) }); err != nil {
		return "", err
	}
	return m.auth.SendOTP(ctx, phone)
}

// VerifyOTP checks the code. On success the returned session is stored;
// on failure the stored session is left as it was.
func (m *Manager) VerifyOTP(ctx context.Context, phone, code string) (*api.AuthResult, error) {
	phone, code = strings.TrimSpace(phone), strings.TrimSpace(code)
	if err := check(func(fe FieldErrors) {
		fe.phone(phone)
		fe.otp(code)
	}); err != nil {
		return nil, err
	}
	res, err := m.auth.VerifyOTP(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, res); err != nil {
		return nil, err
	}
	m.log.Info("otp verified", zap.Bool("profile_complete", res.IsProfileComplete))
	return res, nil
}

// CompleteProfile submits the profile of a verified phone number.
func (m *Manager) CompleteProfile(ctx context.Context, p Profile) (*api.AuthResult, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	res, err := m.auth.CompleteRegistration(ctx, api.Registration{
		PhoneNumber:     strings.TrimSpace(p.PhoneNumber),
		Password:        p.Password,
		ConfirmPassword: p.ConfirmPassword,
		FullName:        strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Email:           strings.TrimSpace(p.Email),
		BirthDate:       strings.TrimSpace(p.BirthDate),
	})
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, res); err != nil {
		return nil, err
	}
	m.log.Info("registration complete")
	return res, nil
}

// Login authenticates with phone and password.
func (m *Manager) Login(ctx context.Context, c Credentials) (*api.AuthResult, error) {
	phone := strings.TrimSpace(c.PhoneNumber)
	if err := check(func(fe FieldErrors) {
		fe.phone(phone)
		fe.password(c.Password)
	}); err != nil {
		return nil, err
	}
	res, err := m.auth.Login(ctx, phone, c.Password)
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, res); err != nil {
		return nil, err
	}
	m.log.Info("logged in")
	return res, nil
}

// Logout removes the stored token and user.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(ctx, prefs.KeyUserToken); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	if err := m.store.Remove(ctx, prefs.KeyUserData); err != nil {
		return fmt.Errorf("removing user: %w", err)
	}
	return nil
}

// Invalidate clears the session after the server rejected the token. It
// always returns an error wrapping ErrSessionExpired.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.log.Info("session invalidated")
	if err := m.Logout(ctx); err != nil {
		return errors.Join(ErrSessionExpired, err)
	}
	return ErrSessionExpired
}

// save stores the token and user of a successful auth response. An empty
// token keeps whatever token is already stored.
func (m *Manager) save(ctx context.Context, res *api.AuthResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if res.Token != "" {
		if err := m.store.Set(ctx, prefs.KeyUserToken, res.Token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
		m.log.Debug("token stored", logging.Redacted("token", res.Token))
	}
	if res.User != nil {
		data, err := json.Marshal(res.User)
		if err != nil {
			return fmt.Errorf("marshaling user: %w", err)
		}
		if err := m.store.Set(ctx, prefs.KeyUserData, string(data)); err != nil {
			return fmt.Errorf("storing user: %w", err)
		}
	}
	return nil
}

// Package session owns the current-user identity and authentication state,
// persisted to the local store and revalidated against the server on load.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
	"github.com/yuvi-2309/Foodie-Finder/internal/store"
	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/validator"
)

// authAPI is the slice of the remote client the session needs.
type authAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
}

// Navigator is invoked when the session forces a route change, e.g. a
// redirect to the login view after an expired session. Implementations are
// view-layer concerns; a nil Navigator is a no-op.
type Navigator interface {
	NavigateToLogin()
}

// Manager holds the authenticated session. It is the sole writer of the
// store's token and user keys.
type Manager struct {
	api    authAPI
	store  store.Store
	nav    Navigator
	logger *slog.Logger

	mu            sync.RWMutex
	user          *domain.User
	authenticated bool
}

// NewManager creates a session manager. nav may be nil.
func NewManager(apiClient authAPI, st store.Store, nav Navigator, log *slog.Logger) *Manager {
	return &Manager{
		api:    apiClient,
		store:  st,
		nav:    nav,
		logger: log,
	}
}

// Login authenticates with credentials. The token is persisted first, then
// the full profile is fetched; the session only counts as authenticated once
// that profile fetch succeeds.
func (m *Manager) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	auth, err := m.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return m.establish(ctx, auth)
}

// Register creates an account and establishes a session the same way Login does.
func (m *Manager) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	auth, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return m.establish(ctx, auth)
}

// establish persists the token and completes the session with a profile fetch.
func (m *Manager) establish(ctx context.Context, auth domain.AuthResponse) (*domain.User, error) {
	if err := m.store.SetToken(auth.AccessToken); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		// A token we cannot attach an identity to is useless; drop it.
		m.clear()
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	if err := m.store.SetUser(user); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.authenticated = true
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session established",
		slog.String("user_id", user.ID),
	)
	return user, nil
}

// Restore rebuilds the session from the store on startup: the persisted user
// is applied optimistically, then validated by re-fetching the profile. A
// token past its expiry claim, or a failed validation, clears the session and
// routes to login.
func (m *Manager) Restore(ctx context.Context) error {
	token, hasToken := m.store.Token()
	user, hasUser := m.store.User()
	if !hasToken || !hasUser {
		return nil
	}

	m.mu.Lock()
	m.user = user
	m.authenticated = true
	m.mu.Unlock()

	if expired(token) {
		m.forceLogout(ctx, "token expired")
		return apperrors.SessionExpired("Your session has expired. Please log in again.")
	}

	fresh, err := m.api.Me(ctx)
	if err != nil {
		m.forceLogout(ctx, "profile validation failed")
		return apperrors.SessionExpired("Your session is no longer valid. Please log in again.")
	}

	if err := m.store.SetUser(fresh); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	m.mu.Lock()
	m.user = fresh
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "session restored",
		slog.String("user_id", fresh.ID),
	)
	return nil
}

// Logout clears the session unconditionally. It never calls the server.
func (m *Manager) Logout() {
	m.clear()
	m.logger.Info("logged out")
	if m.nav != nil {
		m.nav.NavigateToLogin()
	}
}

// CurrentUser returns the in-memory user, nil when unauthenticated.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a validated session is active.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Token implements api.TokenSource so the remote client can attach the
// bearer token without reaching into the store.
func (m *Manager) Token() (string, bool) {
	return m.store.Token()
}

func (m *Manager) clear() {
	// Best effort: an unwritable store must not keep a user logged in.
	if err := m.store.ClearSession(); err != nil {
		m.logger.Error("clear persisted session", slog.String("error", err.Error()))
	}
	m.mu.Lock()
	m.user = nil
	m.authenticated = false
	m.mu.Unlock()
}

func (m *Manager) forceLogout(ctx context.Context, reason string) {
	m.logger.WarnContext(ctx, "session cleared", slog.String("reason", reason))
	m.clear()
	if m.nav != nil {
		m.nav.NavigateToLogin()
	}
}

// expired inspects the token exp claim without verifying the signature;
// verification is the server's job; this only avoids a doomed round trip.
// Tokens without a parseable exp claim are left to server validation.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

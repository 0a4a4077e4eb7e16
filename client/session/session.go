// Package session owns the bearer token and the cached profile. It writes
// every successful sign-in through to durable storage before returning and
// signs out locally when the server rejects the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/abhishek-2k23/Todo-RN/client/persist"
	"github.com/abhishek-2k23/Todo-RN/client/store"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials is returned when the server rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount is returned when registering an existing email or
	// username.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrNetwork wraps timeouts and unreachable-server failures.
	ErrNetwork = errors.New("network error")
)

// Route is the first screen to show.
type Route string

const (
	RouteHome  Route = "home"
	RouteLogin Route = "login"
)

// InitialRoute picks the first screen for a restored session. A token without
// a cached profile still goes home; the next API call settles whether the
// token is valid.
func InitialRoute(s model.Session) Route {
	if s.Authenticated() {
		return RouteHome
	}
	return RouteLogin
}

// API is the part of the API client the session needs.
type API interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.AuthResponse, error)
	Me(ctx context.Context) (*model.UserData, error)
	SetToken(token string)
	OnUnauthorized(fn func(context.Context))
}

// Manager coordinates the API client, the store and the persistence bridge.
type Manager struct {
	api    API
	bridge *persist.Bridge
	store  *store.Store
	log    zerolog.Logger

	mu      sync.Mutex
	current model.Session
}

// NewManager wires a Manager and installs it as api's unauthorized hook.
func NewManager(api API, bridge *persist.Bridge, st *store.Store, log zerolog.Logger) *Manager {
	m := &Manager{api: api, bridge: bridge, store: st, log: log}
	api.OnUnauthorized(m.forceLogout)
	return m
}

// Current returns a copy of the in-memory session.
func (m *Manager) Current() model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySession(m.current)
}

// Restore loads the persisted session and tasks into memory. It never calls
// the server and never fails; unreadable storage yields an empty session.
func (m *Manager) Restore(ctx context.Context) model.Session {
	snap := m.bridge.Restore(ctx)

	if snap.Tasks != nil {
		m.store.SetTasks(snap.Tasks)
	}
	m.store.SetUserData(snap.Session.UserData)
	m.api.SetToken(snap.Session.Token)

	m.mu.Lock()
	m.current = copySession(snap.Session)
	m.mu.Unlock()

	m.log.Debug().
		Bool("authenticated", snap.Session.Authenticated()).
		Int("tasks", len(snap.Tasks)).
		Msg("session restored")
	return copySession(snap.Session)
}

// Login signs in with a username or email.
func (m *Manager) Login(ctx context.Context, identifier, password string) (model.Session, error) {
	resp, err := m.api.Login(ctx, apiclient.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return model.Session{}, loginError(err)
	}
	return m.establish(ctx, resp)
}

// Register creates an account and signs in to it.
func (m *Manager) Register(ctx context.Context, name, username, email, password string) (model.Session, error) {
	resp, err := m.api.Register(ctx, apiclient.RegisterRequest{
		Name:     name,
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return model.Session{}, registerError(err)
	}
	return m.establish(ctx, resp)
}

// establish persists the token, fetches and persists the profile, and then
// publishes the session to the store.
func (m *Manager) establish(ctx context.Context, resp *apiclient.AuthResponse) (model.Session, error) {
	if resp.Token == "" {
		return model.Session{}, fmt.Errorf("server returned no token")
	}

	m.api.SetToken(resp.Token)
	if err := m.bridge.SaveToken(ctx, resp.Token); err != nil {
		m.abandon(ctx)
		return model.Session{}, fmt.Errorf("failed to persist token: %w", err)
	}

	profile, err := m.api.Me(ctx)
	if err != nil {
		if apiclient.KindOf(err) == apiclient.KindUnauthorized {
			return model.Session{}, ErrInvalidCredentials
		}
		// The auth response already carries the profile.
		m.log.Warn().Err(err).Msg("profile fetch failed, using the sign-in response")
		u := resp.User
		profile = &u
	}

	s := model.Session{Token: resp.Token, UserData: profile}
	if err := m.bridge.SaveSession(ctx, s); err != nil {
		m.abandon(ctx)
		return model.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	m.store.SetUserData(profile)
	m.mu.Lock()
	m.current = copySession(s)
	m.mu.Unlock()

	m.log.Info().Str("user", profile.ID).Msg("signed in")
	return copySession(s), nil
}

// Logout signs out locally. The server is not called. The in-memory session
// is cleared even when storage fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.clear()
	if err := m.bridge.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	m.log.Info().Msg("signed out")
	return nil
}

func (m *Manager) forceLogout(ctx context.Context) {
	m.clear()
	if err := m.bridge.ClearSession(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear persisted session after 401")
		return
	}
	m.log.Warn().Msg("session expired, signed out")
}

// abandon undoes a sign-in that failed part way, so neither this process nor
// the next cold start holds a token the caller was told is invalid.
func (m *Manager) abandon(ctx context.Context) {
	m.clear()
	if err := m.bridge.ClearSession(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to roll back persisted session")
	}
}

func (m *Manager) clear() {
	m.api.SetToken("")
	m.store.SetUserData(nil)
	m.mu.Lock()
	m.current = model.Session{}
	m.mu.Unlock()
}

func loginError(err error) error {
	switch {
	case apiclient.IsTransport(err):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	case apiclient.KindOf(err) == apiclient.KindUnauthorized,
		apiclient.StatusOf(err) == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	return fmt.Errorf("login failed: %w", err)
}

func registerError(err error) error {
	switch {
	case apiclient.IsTransport(err):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	case apiclient.IsConflict(err):
		return fmt.Errorf("%w: %w", ErrDuplicateAccount, err)
	}
	return fmt.Errorf("registration failed: %w", err)
}

func copySession(s model.Session) model.Session {
	if s.UserData != nil {
		u := *s.UserData
		s.UserData = &u
	}
	return s
}

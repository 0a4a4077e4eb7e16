package session

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/apiclient"
	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/abhishek-2k23/Todo-RN/client/persist"
	"github.com/abhishek-2k23/Todo-RN/client/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer accepts one account and one valid token.
type fakeServer struct {
	mu       sync.Mutex
	accounts map[string]model.UserData
	valid    map[string]string // token -> user id
	meFails  bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		accounts: make(map[string]model.UserData),
		valid:    make(map[string]string),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/auth/register":
		var req apiclient.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := f.accounts[req.Email]; ok {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict", "message": "User already exists"})
			return
		}
		u := model.UserData{ID: "u1", Username: req.Username, Name: req.Name, Email: req.Email}
		f.accounts[req.Email] = u
		f.valid["token-u1"] = u.ID
		writeJSON(w, http.StatusCreated, apiclient.AuthResponse{Token: "token-u1", User: u})
	case "/auth/login":
		var req apiclient.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, ok := f.accounts[req.Identifier]
		if !ok || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Invalid credentials"})
			return
		}
		f.valid["token-u1"] = u.ID
		writeJSON(w, http.StatusOK, apiclient.AuthResponse{Token: "token-u1", User: u})
	default:
		const prefix = "Bearer "
		h := r.Header.Get("Authorization")
		if len(h) <= len(prefix) || f.valid[h[len(prefix):]] == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Invalid or expired token"})
			return
		}
		switch r.URL.Path {
		case "/me":
			if f.meFails {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
				return
			}
			for _, u := range f.accounts {
				u.Name = "from /me"
				writeJSON(w, http.StatusOK, u)
				return
			}
		case "/todos":
			writeJSON(w, http.StatusOK, []model.Task{})
		default:
			http.NotFound(w, r)
		}
	}
}

func (f *fakeServer) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valid = make(map[string]string)
}

type fixture struct {
	api     *apiclient.Client
	kv      *persist.MemoryStore
	bridge  *persist.Bridge
	store   *store.Store
	manager *Manager
	server  *fakeServer
}

func setup(t *testing.T) *fixture {
	t.Helper()

	fake := newFakeServer()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	f := &fixture{
		api:    apiclient.New(srv.URL),
		kv:     persist.NewMemoryStore(),
		store:  store.New(),
		server: fake,
	}
	f.bridge = persist.NewBridge(f.kv, zerolog.Nop())
	f.manager = NewManager(f.api, f.bridge, f.store, zerolog.Nop())
	return f
}

func persistedToken(t *testing.T, kv persist.KV) (string, bool) {
	t.Helper()
	raw, err := kv.Get(context.Background(), persist.KeyToken)
	if err != nil {
		require.ErrorIs(t, err, persist.ErrNotFound)
		return "", false
	}
	return string(raw), true
}

func TestRegisterPersistsBeforeReturning(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	s, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-u1", s.Token)
	require.NotNil(t, s.UserData)
	assert.Equal(t, "from /me", s.UserData.Name, "profile comes from GET /me")

	// A fresh process sees the same session.
	restored := persist.NewBridge(f.kv, zerolog.Nop()).Restore(ctx)
	assert.Equal(t, s, restored.Session)

	assert.Equal(t, s.UserData, f.store.UserData())
	assert.Equal(t, "token-u1", f.api.Token())
	assert.Equal(t, s, f.manager.Current())
}

func TestRegisterDuplicate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)
	require.NoError(t, f.manager.Logout(ctx))

	_, err = f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	assert.ErrorIs(t, err, ErrDuplicateAccount)
	_, ok := persistedToken(t, f.kv)
	assert.False(t, ok, "no token is issued for a duplicate")

	_, err = f.manager.Login(ctx, "a@x.com", "secret")
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "Al", "", "a@x.com", "secret")
	require.NoError(t, err)
	require.NoError(t, f.manager.Logout(ctx))

	_, err = f.manager.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, f.store.UserData())

	s, err := f.manager.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	token, ok := persistedToken(t, f.kv)
	require.True(t, ok)
	assert.Equal(t, s.Token, token)
}

func TestLoginFallsBackToAuthResponseProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)

	f.server.mu.Lock()
	f.server.meFails = true
	f.server.mu.Unlock()

	s, err := f.manager.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, s.UserData)
	assert.Equal(t, "al", s.UserData.Username)
	assert.Empty(t, s.UserData.Name)
}

// failingKV refuses writes to one key.
type failingKV struct {
	*persist.MemoryStore
	key string
}

func (f failingKV) Set(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestLoginRollsBackWhenProfileCannotBePersisted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)
	require.NoError(t, f.manager.Logout(ctx))

	kv := failingKV{MemoryStore: persist.NewMemoryStore(), key: persist.KeyUserData}
	bridge := persist.NewBridge(kv, zerolog.Nop())
	m := NewManager(f.api, bridge, f.store, zerolog.Nop())

	_, err = m.Login(ctx, "a@x.com", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.False(t, m.Current().Authenticated())
	assert.Empty(t, f.api.Token())
	assert.Nil(t, f.store.UserData())
	_, ok := persistedToken(t, kv)
	assert.False(t, ok, "no token survives a failed sign-in")

	restored := m.Restore(ctx)
	assert.Equal(t, RouteLogin, InitialRoute(restored))
}

func TestLoginNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	m := NewManager(apiclient.New("http://"+addr), persist.NewBridge(persist.NewMemoryStore(), zerolog.Nop()), store.New(), zerolog.Nop())
	_, err = m.Login(context.Background(), "al", "secret")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestLogoutIsLocal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)
	f.store.SetTasks([]model.Task{{ID: "t1", Title: "keep"}})

	require.NoError(t, f.manager.Logout(ctx))

	_, ok := persistedToken(t, f.kv)
	assert.False(t, ok)
	assert.Equal(t, model.Session{}, f.manager.Current())
	assert.Nil(t, f.store.UserData())
	assert.Empty(t, f.api.Token())
	assert.Len(t, f.store.Tasks(), 1)

	// The server still honours the token; only the device forgot it.
	f.server.mu.Lock()
	assert.NotEmpty(t, f.server.valid)
	f.server.mu.Unlock()
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.manager.Register(ctx, "", "al", "a@x.com", "secret")
	require.NoError(t, err)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.SetTasks([]model.Task{{ID: "t1", Title: "a", Category: "Work", CreatedAt: created, UpdatedAt: created}})
	f.store.SetCategories([]model.Category{{ID: "c1", Name: "Work"}})
	f.store.SetSelectedCategory("Work")
	before := f.store.Snapshot()
	require.NotNil(t, before.UserData)

	f.server.revokeAll()
	_, err = f.api.ListTodos(ctx)
	require.Equal(t, apiclient.KindUnauthorized, apiclient.KindOf(err))

	_, ok := persistedToken(t, f.kv)
	assert.False(t, ok, "persisted token is cleared")
	assert.Nil(t, f.store.UserData())
	assert.False(t, f.manager.Current().Authenticated())

	after := f.store.Snapshot()
	before.UserData = nil
	assert.Equal(t, before, after, "only the profile changes")
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	kv := persist.NewMemoryStore()
	bridge := persist.NewBridge(kv, zerolog.Nop())

	user := &model.UserData{ID: "u1", Username: "al"}
	require.NoError(t, bridge.SaveSession(ctx, model.Session{Token: "tok", UserData: user}))
	require.NoError(t, bridge.SaveTasks(ctx, []model.Task{{ID: "t1", Title: "a"}}))

	api := apiclient.New("http://127.0.0.1:1")
	st := store.New()
	s := NewManager(api, bridge, st, zerolog.Nop()).Restore(ctx)

	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, user, s.UserData)
	assert.Equal(t, "tok", api.Token())
	assert.Equal(t, user, st.UserData())
	assert.Len(t, st.Tasks(), 1)
	assert.Equal(t, RouteHome, InitialRoute(s))
}

func TestRestoreEmpty(t *testing.T) {
	m := NewManager(apiclient.New("http://127.0.0.1:1"), persist.NewBridge(persist.NewMemoryStore(), zerolog.Nop()), store.New(), zerolog.Nop())
	s := m.Restore(context.Background())
	assert.Equal(t, model.Session{}, s)
	assert.Equal(t, RouteLogin, InitialRoute(s))
}

func TestInitialRoute(t *testing.T) {
	assert.Equal(t, RouteHome, InitialRoute(model.Session{Token: "t"}))
	assert.Equal(t, RouteLogin, InitialRoute(model.Session{}))
}

package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestBearerToken(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []model.Task{})
	}))
	defer srv.Close()

	c := New(srv.URL)

	_, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())

	c.SetToken("abc")
	_, err = c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Load())
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind Kind
		check    func(t *testing.T, err error)
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     map[string]string{"error": "unauthorized", "message": "Invalid or expired token"},
			wantKind: KindUnauthorized,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     map[string]string{"error": "internal_error", "message": "An internal error occurred"},
			wantKind: KindServerError,
		},
		{
			name:     "bad gateway without body",
			status:   http.StatusBadGateway,
			wantKind: KindServerError,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "Bad Gateway")
			},
		},
		{
			name:   "validation with fields",
			status: http.StatusBadRequest,
			body: map[string]any{
				"error": "bad_request", "message": "Title is required",
				"fields": map[string]string{"title": "required"},
			},
			wantKind: KindValidationError,
			check: func(t *testing.T, err error) {
				var apiErr *Error
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "bad_request", apiErr.Code)
				assert.Equal(t, map[string]string{"title": "required"}, apiErr.Fields)
			},
		},
		{
			name:     "not found",
			status:   http.StatusNotFound,
			body:     map[string]string{"error": "not_found", "message": "todo not found"},
			wantKind: KindValidationError,
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:     "conflict",
			status:   http.StatusConflict,
			body:     map[string]string{"error": "conflict", "message": "User already exists"},
			wantKind: KindValidationError,
			check: func(t *testing.T, err error) {
				assert.True(t, IsConflict(err))
				assert.Equal(t, http.StatusConflict, StatusOf(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).ListTodos(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).ListTodos(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.True(t, IsTransport(err))
}

func TestContextDeadlineIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Me(ctx)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestNetworkUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New("http://" + addr).ListTodos(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetworkUnreachable, KindOf(err))
	assert.Zero(t, StatusOf(err))
}

func TestUnauthorizedClearsTokenAndRunsHookOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Invalid or expired token"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("stale")

	hooks := 0
	c.OnUnauthorized(func(context.Context) {
		hooks++
		assert.Empty(t, c.Token(), "token is cleared before the hook runs")
	})

	err := c.DeleteTodo(context.Background(), "t1")
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.Equal(t, 1, hooks)
	assert.Equal(t, int32(1), calls.Load(), "401 responses are not retried")
	assert.Empty(t, c.Token())
}

func TestUnauthorizedWithoutTokenSkipsHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Invalid credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	hooked := false
	c.OnUnauthorized(func(context.Context) { hooked = true })

	_, err := c.Login(context.Background(), LoginRequest{Identifier: "al", Password: "wrong"})
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.False(t, hooked)
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateTodo(context.Background(), CreateTodoRequest{Title: "x"})
	assert.Equal(t, KindServerError, KindOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTodos(context.Background())
	assert.Equal(t, KindServerError, KindOf(err))
}

func TestRequests(t *testing.T) {
	type seen struct {
		method, path string
		body         map[string]any
	}
	var (
		mu      sync.Mutex
		current seen
	)
	last := func() seen {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.RequestURI()}
		_ = json.NewDecoder(r.Body).Decode(&s.body)
		mu.Lock()
		current = s
		mu.Unlock()
		switch {
		case r.URL.Path == "/api/auth/login" || r.URL.Path == "/api/auth/register":
			writeJSON(w, http.StatusOK, map[string]any{"token": "tok", "user": map[string]string{"id": "u1"}})
		case r.URL.Path == "/api/activity":
			writeJSON(w, http.StatusOK, []ActivityEntry{{Type: "todo_completed", Message: "done"}})
		case r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
		default:
			writeJSON(w, http.StatusOK, map[string]string{"id": "x1", "name": "Work"})
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL + "/api/")

	resp, err := c.Login(ctx, LoginRequest{Identifier: "al", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, seen{http.MethodPost, "/api/auth/login", map[string]any{"identifier": "al", "password": "secret"}}, last())

	_, err = c.Register(ctx, RegisterRequest{Username: "al", Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"username": "al", "email": "a@x.com", "password": "secret"}, last().body)

	done := true
	_, err = c.UpdateTodo(ctx, "t1", UpdateTodoRequest{Completed: &done, ClearDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, seen{http.MethodPut, "/api/todos/t1", map[string]any{"completed": true, "dueDate": nil}}, last())

	require.NoError(t, c.DeleteTodo(ctx, "t1"))
	assert.Equal(t, http.MethodDelete, last().method)
	assert.Equal(t, "/api/todos/t1", last().path)

	cat, err := c.UpdateCategory(ctx, "x1", "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", cat.Name)
	assert.Equal(t, seen{http.MethodPut, "/api/categories/x1", map[string]any{"name": "Work"}}, last())

	entries, err := c.Activity(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/activity?limit=5", last().path)
}

func TestUpdateTodoRequestJSON(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	title := "new"

	data, err := json.Marshal(UpdateTodoRequest{Title: &title, DueDate: &due})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"new","dueDate":"2024-06-01T00:00:00Z"}`, string(data))

	data, err = json.Marshal(UpdateTodoRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

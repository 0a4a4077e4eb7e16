// Package apiclient talks to the todo REST API. It attaches the bearer token
// and classifies every failure; it never retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

// DefaultBaseURL points at a server running locally.
const DefaultBaseURL = "http://localhost:3000/api"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func(context.Context)
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with each request. Empty sends none.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run when an authenticated request gets a
// 401. The token is already cleared when fn runs, and fn returns before the
// error reaches the caller.
func (c *Client) OnUnauthorized(fn func(context.Context)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := c.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := classifyTransport(err)
		c.log.Debug().Str("method", method).Str("path", path).Str("kind", string(apiErr.Kind)).Err(err).Msg("request failed")
		return apiErr
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		apiErr := classifyStatus(resp.StatusCode, eb)
		if apiErr.Kind == KindUnauthorized && token != "" {
			c.unauthorized(ctx, token)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServerError, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// unauthorized clears the rejected token and runs the hook. A token that was
// replaced while the request was in flight is left alone.
func (c *Client) unauthorized(ctx context.Context, rejected string) {
	c.mu.Lock()
	if c.token != rejected {
		c.mu.Unlock()
		return
	}
	c.token = ""
	hook := c.onUnauthorized
	c.mu.Unlock()

	c.log.Info().Msg("token rejected, signing out")
	if hook != nil {
		hook(ctx)
	}
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the signed-in user's profile.
func (c *Client) Me(ctx context.Context) (*model.UserData, error) {
	var u model.UserData
	if err := c.do(ctx, http.MethodGet, "/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe changes the supplied profile fields.
func (c *Client) UpdateMe(ctx context.Context, req UpdateMeRequest) (*model.UserData, error) {
	var u model.UserData
	if err := c.do(ctx, http.MethodPut, "/me", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListTodos returns the caller's todos, newest first.
func (c *Client) ListTodos(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTodo creates a todo and returns the server's record.
func (c *Client) CreateTodo(ctx context.Context, req CreateTodoRequest) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/todos", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTodo applies a partial update.
func (c *Client) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, &messageResponse{})
}

// ListCategories returns the caller's categories sorted by name.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var cat model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nameRequest{Name: name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	var cat model.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nameRequest{Name: name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, &messageResponse{})
}

// Activity returns up to limit recent events, newest first. A limit of zero
// uses the server default.
func (c *Client) Activity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	path := "/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []ActivityEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
	"github.com/abhishek-2k23/Todo-RN/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// stubAuth accepts the token "good" for user-1 and knows only the users in
// existing.
type stubAuth struct {
	existing map[string]bool
	calls    int
}

func (s *stubAuth) Register(context.Context, auth.RegisterRequest) (*auth.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) Login(context.Context, auth.LoginRequest) (*auth.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) Refresh(context.Context, string) (*auth.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	s.calls++
	if token != "good" {
		return nil, apperr.Unauthorized("invalid token")
	}
	return &domain.Claims{UserID: "user-1", Email: "al@example.com"}, nil
}

func (s *stubAuth) GetUser(_ context.Context, userID string) (*domain.Profile, error) {
	if !s.existing[userID] {
		return nil, apperr.NotFound("user")
	}
	return &domain.Profile{ID: userID}, nil
}

func (s *stubAuth) UpdateProfile(context.Context, auth.UpdateProfileRequest) (*domain.Profile, error) {
	return nil, errors.New("not implemented")
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"bearer abc":     "abc",
		"Bearer   abc  ": "abc",
		"Basic abc":      "",
		"Bearer":         "",
		"abc":            "",
		"":               "",
	}
	for header, want := range tests {
		if got := bearerToken(header); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		existing  map[string]bool
		status    int
		message   string
		validated bool
	}{
		{name: "no header", status: http.StatusUnauthorized, message: msgNoToken},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", status: http.StatusUnauthorized, message: msgNoToken},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized, message: msgInvalidToken, validated: true},
		{name: "deleted account", header: "Bearer good", status: http.StatusUnauthorized, message: msgInvalidToken, validated: true},
		{name: "ok", header: "Bearer good", existing: map[string]bool{"user-1": true}, status: http.StatusOK, validated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuth{existing: tt.existing}
			app := fiber.New()
			app.Use(AuthMiddleware(stub))
			app.Get("/todos", func(c *fiber.Ctx) error {
				claims, ok := currentUser(c)
				if !ok {
					return c.SendStatus(fiber.StatusInternalServerError)
				}
				return c.SendString(claims.UserID)
			})

			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if (stub.calls > 0) != tt.validated {
				t.Errorf("token validated = %v, want %v", stub.calls > 0, tt.validated)
			}
			if tt.status != http.StatusUnauthorized {
				return
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != "unauthorized" || body.Message != tt.message {
				t.Errorf("body = %+v, want unauthorized / %q", body, tt.message)
			}
		})
	}
}

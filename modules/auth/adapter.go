package auth

import (
	"context"
	"encoding/json"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the port other modules use to reach auth functionality.
// *AuthService satisfies it in-process; AuthAdapter satisfies it over the
// service container.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.Profile, error)
}

var (
	_ AuthPort = (*AuthService)(nil)
	_ AuthPort = (*AuthAdapter)(nil)
)

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register creates an account through the register service.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := callService(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates through the login service.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token through the refresh-token service.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp AuthResponse
	if err := callService(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken resolves an access token to its claims over request-reply.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		return nil, apperr.Unauthorized(resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetUser retrieves a user profile by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*domain.Profile, error) {
	req := GetUserRequest{UserID: userID}
	var resp domain.Profile
	if err := callService(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes profile fields through the update-profile service.
func (a *AuthAdapter) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.Profile, error) {
	var resp domain.Profile
	if err := callService(ctx, a.container, "update-profile", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// callService invokes a request-reply service and restores the error
// classification lost in transit.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return apperr.Parse(err)
	}
	return nil
}

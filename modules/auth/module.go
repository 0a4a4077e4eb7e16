package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
	"github.com/abhishek-2k23/Todo-RN/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// AuthModule owns user accounts and issues session tokens.
type AuthModule struct {
	db        *gorm.DB
	service   *AuthService
	jwtConfig JWTConfig
	eventBus  mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)
var _ mono.EventEmitterModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule backed by db.
func NewModule(db *gorm.DB, jwtConfig JWTConfig) *AuthModule {
	return &AuthModule{
		db:        db,
		jwtConfig: jwtConfig,
	}
}

func (m *AuthModule) Name() string {
	return "auth"
}

// SetEventBus receives the EventBus for publishing.
func (m *AuthModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares which events this module emits.
func (m *AuthModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserRegisteredV1.ToBase(),
	}
}

// Start migrates the users table and wires the service.
func (m *AuthModule) Start(_ context.Context) error {
	if err := m.db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(m.db)
	m.service = NewAuthService(repo, NewPasswordHasher(), NewJWTManager(m.jwtConfig))
	m.service.OnRegistered(m.publishRegistered)

	log.Printf("[auth] Module started (issuer: %s)", m.jwtConfig.Issuer)
	return nil
}

// Stop shuts down the module. The database handle is owned by the caller.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
	}
}

// RegisterServices exposes the account operations to the api module.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-profile", json.Unmarshal, json.Marshal, m.handleUpdateProfile,
	); err != nil {
		return fmt.Errorf("failed to register update-profile service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, validate-token, get-user, update-profile")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (AuthResponse, error) {
	resp, err := m.service.Register(ctx, req)
	if err != nil {
		return AuthResponse{}, err
	}
	return *resp, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (AuthResponse, error) {
	resp, err := m.service.Login(ctx, req)
	if err != nil {
		return AuthResponse{}, err
	}
	return *resp, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (AuthResponse, error) {
	resp, err := m.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return AuthResponse{}, err
	}
	return *resp, nil
}

// handleValidateToken reports failures in the response body rather than as
// a service error.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		msg := "invalid token"
		if e := apperr.Parse(err); e != nil {
			msg = e.Message
		}
		return ValidateTokenResponse{Valid: false, Error: msg}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (domain.Profile, error) {
	profile, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return domain.Profile{}, err
	}
	return *profile, nil
}

func (m *AuthModule) handleUpdateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (domain.Profile, error) {
	profile, err := m.service.UpdateProfile(ctx, req)
	if err != nil {
		return domain.Profile{}, err
	}
	return *profile, nil
}

// publishRegistered emits UserRegistered. Publishing is best-effort.
func (m *AuthModule) publishRegistered(_ context.Context, user *domain.User) {
	if m.eventBus == nil {
		return
	}
	event := events.UserRegisteredEvent{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}
	if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[auth] Warning: failed to publish UserRegistered event for user %s: %v", user.ID, err)
	}
}

package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
	maxUsernameLength = 30
	maxNameLength     = 50
)

// errInvalidCredentials is deliberately identical for unknown accounts and
// wrong passwords.
var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// RegisteredHook is called after an account has been stored.
type RegisteredHook func(ctx context.Context, user *domain.User)

// AuthService handles authentication business logic.
type AuthService struct {
	repo         *UserRepository
	hasher       *PasswordHasher
	jwt          *JWTManager
	onRegistered RegisteredHook
	now          func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OnRegistered installs a hook run after each successful registration.
func (s *AuthService) OnRegistered(hook RegisteredHook) {
	s.onRegistered = hook
}

// Register creates a new account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if username == "" {
		username = name
	}
	email := normalizeEmail(req.Email)

	fields := map[string]string{}
	if msg := validateUsername(username); msg != "" {
		fields["username"] = msg
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		fields["name"] = "name must be at most 50 characters"
	}
	if msg := validateEmail(email); msg != "" {
		fields["email"] = msg
	}
	if msg := validatePassword(req.Password); msg != "" {
		fields["password"] = msg
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid registration", fields)
	}

	if err := s.ensureUnique(ctx, username, email, ""); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, apperr.Conflict("Account already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	if s.onRegistered != nil {
		s.onRegistered(ctx, user)
	}

	return s.authResponse(user)
}

// Login authenticates by email or username and returns tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		return nil, apperr.Validation("identifier and password are required", nil)
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.repo.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return s.authResponse(user)
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.Verify(refreshToken, KindRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	return s.authResponse(user)
}

// ValidateToken validates an access token and returns claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.Verify(token, KindAccess)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil, apperr.Unauthorized("token expired")
		}
		return nil, apperr.Unauthorized("invalid token")
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user's profile by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("failed to find user", err)
	}
	profile := user.ToProfile()
	return &profile, nil
}

// UpdateProfile changes only the supplied fields. A new password is hashed
// before the record is written.
func (s *AuthService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("failed to find user", err)
	}

	fields := map[string]string{}
	username, email := user.Username, user.Email
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		if msg := validateUsername(username); msg != "" {
			fields["username"] = msg
		}
	}
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
		if msg := validateEmail(email); msg != "" {
			fields["email"] = msg
		}
	}
	if req.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*req.Name)) > maxNameLength {
		fields["name"] = "name must be at most 50 characters"
	}
	if req.Password != nil {
		if msg := validatePassword(*req.Password); msg != "" {
			fields["password"] = msg
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid profile", fields)
	}

	if err := s.ensureUnique(ctx, username, email, user.ID); err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperr.Internal("failed to hash password", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, apperr.Conflict("Account already exists")
		}
		return nil, apperr.Internal("failed to update user", err)
	}

	profile := user.ToProfile()
	return &profile, nil
}

// ensureUnique reports which unique field collides with another account.
func (s *AuthService) ensureUnique(ctx context.Context, username, email, exceptID string) error {
	taken, err := s.repo.EmailTaken(ctx, email, exceptID)
	if err != nil {
		return apperr.Internal("failed to check email", err)
	}
	if taken {
		return apperr.Conflict("Email already exists")
	}

	taken, err = s.repo.UsernameTaken(ctx, username, exceptID)
	if err != nil {
		return apperr.Internal("failed to check username", err)
	}
	if taken {
		return apperr.Conflict("Username already exists")
	}
	return nil
}

func (s *AuthService) authResponse(user *domain.User) (*AuthResponse, error) {
	tokens, err := s.jwt.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal("failed to issue tokens", err)
	}
	return &AuthResponse{
		User:   user.ToProfile(),
		Tokens: *tokens,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) string {
	n := utf8.RuneCountInString(username)
	switch {
	case n == 0:
		return "username is required"
	case n > maxUsernameLength:
		return "username must be at most 30 characters"
	case strings.Contains(username, "@"):
		return "username must not contain @"
	}
	return ""
}

func validateEmail(email string) string {
	if email == "" {
		return "email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "invalid email format"
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case len(password) < minPasswordLength:
		return "password must be at least 6 characters"
	case len(password) > maxPasswordLength:
		return "password must be at most 72 characters"
	}
	return ""
}

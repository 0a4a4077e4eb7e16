package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test-issuer",
	}
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	pair, err := manager.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("Issue() returned empty tokens: %+v", pair)
	}
	if pair.ExpiresIn != 3600 || pair.TokenType != "Bearer" {
		t.Errorf("pair = %+v, want expiresIn 3600 and type Bearer", pair)
	}

	claims, err := manager.Verify(pair.AccessToken, KindAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "test@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("claims.Issuer = %q", claims.Issuer)
	}
}

func TestJWTManager_PayloadCarriesID(t *testing.T) {
	token, err := NewJWTManager(testJWTConfig()).Sign("user-123", "a@x.com", KindAccess)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["id"] != "user-123" {
		t.Errorf("payload id = %v, want user-123", payload["id"])
	}
}

func TestJWTManager_KindsAreNotInterchangeable(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	pair, err := manager.Issue("user-123", "test@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := manager.Verify(pair.AccessToken, KindRefresh); err != ErrInvalidToken {
		t.Errorf("Verify(access, refresh) error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := manager.Verify(pair.RefreshToken, KindAccess); err != ErrInvalidToken {
		t.Errorf("Verify(refresh, access) error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := manager.Verify(pair.RefreshToken, KindRefresh); err != nil {
		t.Errorf("Verify(refresh, refresh) error = %v", err)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := manager.Sign("user-123", "test@example.com", KindAccess)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	manager.now = time.Now
	if _, err := manager.Verify(token, KindAccess); err != ErrExpiredToken {
		t.Errorf("Verify() error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	signer := NewJWTManager(testJWTConfig())
	good, err := signer.Sign("user-123", "test@example.com", KindAccess)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	otherSecret := testJWTConfig()
	otherSecret.SecretKey = "another-secret"
	otherIssuer := testJWTConfig()
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		manager *JWTManager
		token   string
	}{
		{"wrong secret", NewJWTManager(otherSecret), good},
		{"wrong issuer", NewJWTManager(otherIssuer), good},
		{"empty", signer, ""},
		{"not a jwt", signer, "not-a-jwt"},
		{"garbage segments", signer, "a.b.c"},
		// alg "none" with the same claims.
		{"unsigned", signer, "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + strings.Split(good, ".")[1] + "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.manager.Verify(tt.token, KindAccess); err != ErrInvalidToken {
				t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestDefaultJWTConfig(t *testing.T) {
	cfg := DefaultJWTConfig()

	if cfg.AccessTokenDuration != 24*time.Hour {
		t.Errorf("AccessTokenDuration = %v, want 24h", cfg.AccessTokenDuration)
	}
	if cfg.RefreshTokenDuration != 7*24*time.Hour {
		t.Errorf("RefreshTokenDuration = %v, want 168h", cfg.RefreshTokenDuration)
	}
	if cfg.SecretKey == "" {
		t.Error("SecretKey is empty")
	}
}

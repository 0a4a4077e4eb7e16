package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "JWT_SECRET", "JWT_ISSUER", "APP_ENV", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "DB_DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, DefaultDatabaseURL)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.JWTSecret != DefaultJWTSecret {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, DefaultJWTSecret)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false by default")
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty", cfg.RedisAddr)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), ":3000")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DB_DEBUG", "true")

	cfg := Load()

	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "file:test.db")
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), ":8080")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, "s3cret")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want %q", cfg.RedisAddr, "localhost:6379")
	}
	if !cfg.DBDebug {
		t.Error("DBDebug = false, want true")
	}
}

// Package config loads the server configuration from the environment.
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Fallback values. None of them are suitable for production.
const (
	DefaultDatabaseURL = "todo.db"
	DefaultPort        = "3000"
	DefaultJWTSecret   = "your-secret-key"
	DefaultJWTIssuer   = "todo-rn"
)

// Config holds process-wide settings consumed at start.
type Config struct {
	// DatabaseURL is the sqlite DSN used by every persistence module.
	DatabaseURL string
	Port        string
	JWTSecret   string
	JWTIssuer   string
	// Env is "development" or "production".
	Env string
	// RedisAddr enables the todo list cache when set.
	RedisAddr   string
	CORSOrigins string
	// DBDebug turns on SQL logging.
	DBDebug bool
}

// Load reads a .env file if one exists and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] Warning: failed to load .env: %v", err)
	}

	cfg := Config{
		DatabaseURL: getenv("DATABASE_URL", DefaultDatabaseURL),
		Port:        getenv("PORT", DefaultPort),
		JWTSecret:   getenv("JWT_SECRET", DefaultJWTSecret),
		JWTIssuer:   getenv("JWT_ISSUER", DefaultJWTIssuer),
		Env:         strings.ToLower(getenv("APP_ENV", "production")),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CORSOrigins: getenv("CORS_ALLOWED_ORIGINS", "*"),
		DBDebug:     os.Getenv("DB_DEBUG") == "true",
	}

	if cfg.JWTSecret == DefaultJWTSecret {
		log.Println("[config] Warning: JWT_SECRET is not set, using the insecure default")
	}
	return cfg
}

// IsDevelopment reports whether error detail may be returned to clients.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

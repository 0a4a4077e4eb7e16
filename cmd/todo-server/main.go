package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/abhishek-2k23/Todo-RN/config"
	"github.com/abhishek-2k23/Todo-RN/database"
	"github.com/abhishek-2k23/Todo-RN/modules/activity"
	"github.com/abhishek-2k23/Todo-RN/modules/api"
	"github.com/abhishek-2k23/Todo-RN/modules/auth"
	"github.com/abhishek-2k23/Todo-RN/modules/cache"
	"github.com/abhishek-2k23/Todo-RN/modules/category"
	"github.com/abhishek-2k23/Todo-RN/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Todo API ===")

	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	jwtConfig := auth.DefaultJWTConfig()
	jwtConfig.SecretKey = cfg.JWTSecret
	jwtConfig.Issuer = cfg.JWTIssuer

	todoModule := todo.NewModule(db)

	// Order: independent modules first, then dependent modules
	if cfg.RedisAddr != "" {
		cacheConfig := cache.DefaultConfig()
		cacheConfig.RedisAddr = cfg.RedisAddr
		cacheModule := cache.NewModule(cacheConfig)
		todoModule.SetCache(cacheModule.Cache())
		app.Register(cacheModule)
	}
	app.Register(auth.NewModule(db, jwtConfig))
	app.Register(category.NewModule(db)) // Seeds categories on UserRegistered
	app.Register(todoModule)
	app.Register(activity.NewModule(activity.DefaultFeedSize))
	app.Register(api.NewModule(api.Config{
		Addr:        cfg.Addr(),
		Development: cfg.IsDevelopment(),
		CORSOrigins: cfg.CORSOrigins,
	}))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				if err := app.Stop(ctx); err != nil {
					return err
				}
				return database.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("  Database: %s", cfg.DatabaseURL)
	if cfg.RedisAddr != "" {
		log.Printf("  Todo list cache: redis at %s", cfg.RedisAddr)
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost%s):", cfg.Addr())
	log.Println("")
	log.Println("  Public Endpoints (also under /auth and /api/auth):")
	log.Println("  POST   /register              - Register a new account")
	log.Println("  POST   /login                 - Login with email or username")
	log.Println("  POST   /refresh               - Refresh access token")
	log.Println("  GET    /health                - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (Bearer token; also under /api):")
	log.Println("  GET    /me                    - Current profile")
	log.Println("  PUT    /me                    - Update profile")
	log.Println("  GET    /todos                 - List todos, newest first")
	log.Println("  POST   /todos                 - Create a todo")
	log.Println("  PUT    /todos/:id             - Update a todo")
	log.Println("  DELETE /todos/:id             - Delete a todo")
	log.Println("  GET    /categories            - List categories")
	log.Println("  POST   /categories            - Create a category")
	log.Println("  PUT    /categories/:id        - Rename a category")
	log.Println("  DELETE /categories/:id        - Delete a category")
	log.Println("  GET    /activity              - Recent activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config configures the HTTP server.
type Config struct {
	Addr        string
	Development bool
	CORSOrigins string
	// DisableRequestLog turns off the per-request log line.
	DisableRequestLog bool
}

// NewApp builds the fiber application with every route mounted.
func NewApp(ports Ports, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          newErrorHandler(cfg.Development),
	})

	app.Use(recover.New())
	if !cfg.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers := NewHandlers(ports, cfg.Development)
	requireAuth := AuthMiddleware(ports.Auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// The mobile client has used both the /api prefix and bare paths.
	api := app.Group("/api")
	mountAuth(api.Group("/auth"), handlers)
	mountResources(api, handlers, requireAuth)

	mountAuth(app.Group("/auth"), handlers)
	mountAuth(app, handlers)
	mountResources(app, handlers, requireAuth)

	return app
}

func mountAuth(r fiber.Router, h *Handlers) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func mountResources(r fiber.Router, h *Handlers, requireAuth fiber.Handler) {
	me := r.Group("/me", requireAuth)
	me.Get("/", h.Me)
	me.Put("/", h.UpdateMe)

	todos := r.Group("/todos", requireAuth)
	todos.Get("/", h.ListTodos)
	todos.Post("/", h.CreateTodo)
	todos.Put("/:id", h.UpdateTodo)
	todos.Patch("/:id", h.UpdateTodo)
	todos.Delete("/:id", h.DeleteTodo)

	categories := r.Group("/categories", requireAuth)
	categories.Get("/", h.ListCategories)
	categories.Post("/", h.CreateCategory)
	categories.Get("/:id", h.GetCategory)
	categories.Put("/:id", h.UpdateCategory)
	categories.Delete("/:id", h.DeleteCategory)

	r.Get("/activity", requireAuth, h.Activity)
}

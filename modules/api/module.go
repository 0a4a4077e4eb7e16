package api

import (
	"context"
	"fmt"
	"log"

	"github.com/abhishek-2k23/Todo-RN/modules/activity"
	"github.com/abhishek-2k23/Todo-RN/modules/auth"
	"github.com/abhishek-2k23/Todo-RN/modules/category"
	"github.com/abhishek-2k23/Todo-RN/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app    *fiber.App
	config Config
	ports  Ports
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(config Config) *APIModule {
	return &APIModule{config: config}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "todo", "category", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.ports.Auth = auth.NewAuthAdapter(container)
	case "todo":
		m.ports.Todos = todo.NewTodoAdapter(container)
	case "category":
		m.ports.Categories = category.NewCategoryAdapter(container)
	case "activity":
		m.ports.Activity = activity.NewActivityAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.ports.Auth == nil:
		return fmt.Errorf("auth dependency not set")
	case m.ports.Todos == nil:
		return fmt.Errorf("todo dependency not set")
	case m.ports.Categories == nil:
		return fmt.Errorf("category dependency not set")
	case m.ports.Activity == nil:
		return fmt.Errorf("activity dependency not set")
	}

	m.app = NewApp(m.ports, m.config)

	go func() {
		if err := m.app.Listen(m.config.Addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s (development: %t)", m.config.Addr, m.config.Development)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.config.Addr,
		},
	}
}

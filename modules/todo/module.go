package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	domain "github.com/abhishek-2k23/Todo-RN/domain/todo"
	"github.com/abhishek-2k23/Todo-RN/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// TodoModule serves todo CRUD over request-reply services.
type TodoModule struct {
	db       *gorm.DB
	repo     *Repository
	service  *Service
	cache    ListCache
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TodoModule)(nil)
var _ mono.ServiceProviderModule = (*TodoModule)(nil)
var _ mono.EventEmitterModule = (*TodoModule)(nil)
var _ mono.HealthCheckableModule = (*TodoModule)(nil)

// NewModule creates a new TodoModule backed by db.
func NewModule(db *gorm.DB) *TodoModule {
	return &TodoModule{db: db}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// SetCache enables list caching. Must be called before Start.
func (m *TodoModule) SetCache(c ListCache) {
	m.cache = c
}

// SetEventBus receives the EventBus for publishing.
func (m *TodoModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares which events this module emits.
func (m *TodoModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TodoCompletedV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

// Start migrates the todos table and builds the service.
func (m *TodoModule) Start(_ context.Context) error {
	m.repo = NewRepository(m.db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.service = NewService(m.repo, m.cache, m)

	log.Printf("[todo] Module started (cache: %t)", m.cache != nil)
	return nil
}

// Stop shuts down the module.
func (m *TodoModule) Stop(_ context.Context) error {
	log.Println("[todo] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TodoModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"cache": m.cache != nil},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-todos", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-todos service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-todo", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-todo service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update-todo", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update-todo service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-todo", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-todo service: %w", err)
	}

	log.Printf("[todo] Registered services: list-todos, create-todo, update-todo, delete-todo")
	return nil
}

func (m *TodoModule) handleList(ctx context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	resp, err := m.service.List(ctx, req)
	if err != nil {
		return ListTodosResponse{}, err
	}
	return *resp, nil
}

func (m *TodoModule) handleCreate(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	resp, err := m.service.Create(ctx, req)
	if err != nil {
		return TodoResponse{}, err
	}
	return *resp, nil
}

func (m *TodoModule) handleUpdate(ctx context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	resp, err := m.service.Update(ctx, req)
	if err != nil {
		return TodoResponse{}, err
	}
	return *resp, nil
}

func (m *TodoModule) handleDelete(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	resp, err := m.service.Delete(ctx, req)
	if err != nil {
		return DeleteTodoResponse{}, err
	}
	return *resp, nil
}

// TodoCompleted publishes TodoCompleted. Publishing is best-effort.
func (m *TodoModule) TodoCompleted(_ context.Context, t *domain.Todo) {
	if m.eventBus == nil || t.CompletedAt == nil {
		return
	}
	event := events.TodoCompletedEvent{
		TodoID:      t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		CompletedAt: *t.CompletedAt,
	}
	if err := events.TodoCompletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[todo] Warning: failed to publish TodoCompleted event for todo %s: %v", t.ID, err)
	}
}

// TodoDeleted publishes TodoDeleted. Publishing is best-effort.
func (m *TodoModule) TodoDeleted(_ context.Context, t *domain.Todo) {
	if m.eventBus == nil {
		return
	}
	event := events.TodoDeletedEvent{
		TodoID:    t.ID,
		UserID:    t.UserID,
		DeletedAt: time.Now().UTC(),
	}
	if err := events.TodoDeletedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[todo] Warning: failed to publish TodoDeleted event for todo %s: %v", t.ID, err)
	}
}

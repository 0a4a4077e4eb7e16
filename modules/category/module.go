package category

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/abhishek-2k23/Todo-RN/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// CategoryModule serves per-user categories and seeds the defaults for new
// accounts.
type CategoryModule struct {
	db      *gorm.DB
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*CategoryModule)(nil)
var _ mono.ServiceProviderModule = (*CategoryModule)(nil)
var _ mono.EventConsumerModule = (*CategoryModule)(nil)
var _ mono.HealthCheckableModule = (*CategoryModule)(nil)

// NewModule creates a new CategoryModule backed by db.
func NewModule(db *gorm.DB) *CategoryModule {
	return &CategoryModule{db: db}
}

// Name returns the module name.
func (m *CategoryModule) Name() string {
	return "category"
}

// Start migrates the categories table and builds the service.
func (m *CategoryModule) Start(_ context.Context) error {
	repo := NewRepository(m.db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.service = NewService(repo)

	log.Println("[category] Module started")
	return nil
}

// Stop shuts down the module.
func (m *CategoryModule) Stop(_ context.Context) error {
	log.Println("[category] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *CategoryModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CategoryModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-categories", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-categories service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-category", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get-category service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-category", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-category service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update-category", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update-category service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-category", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-category service: %w", err)
	}

	log.Printf("[category] Registered services: list-categories, get-category, create-category, update-category, delete-category")
	return nil
}

// RegisterEventConsumers subscribes to account registration.
func (m *CategoryModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}

	log.Printf("[category] Registered event consumers: UserRegistered")
	return nil
}

func (m *CategoryModule) handleUserRegistered(ctx context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	if err := m.service.SeedDefaults(ctx, event.UserID); err != nil {
		log.Printf("[category] Failed to seed categories for user %s: %v", event.UserID, err)
		return err
	}
	log.Printf("[category] Seeded default categories for user %s", event.UserID)
	return nil
}

func (m *CategoryModule) handleList(ctx context.Context, req ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	resp, err := m.service.List(ctx, req)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return *resp, nil
}

func (m *CategoryModule) handleGet(ctx context.Context, req GetCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	resp, err := m.service.Get(ctx, req)
	if err != nil {
		return CategoryResponse{}, err
	}
	return *resp, nil
}

func (m *CategoryModule) handleCreate(ctx context.Context, req CreateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	resp, err := m.service.Create(ctx, req)
	if err != nil {
		return CategoryResponse{}, err
	}
	return *resp, nil
}

func (m *CategoryModule) handleUpdate(ctx context.Context, req UpdateCategoryRequest, _ *mono.Msg) (CategoryResponse, error) {
	resp, err := m.service.Update(ctx, req)
	if err != nil {
		return CategoryResponse{}, err
	}
	return *resp, nil
}

func (m *CategoryModule) handleDelete(ctx context.Context, req DeleteCategoryRequest, _ *mono.Msg) (DeleteCategoryResponse, error) {
	resp, err := m.service.Delete(ctx, req)
	if err != nil {
		return DeleteCategoryResponse{}, err
	}
	return *resp, nil
}

package todo

import (
	"context"
	"errors"

	domain "github.com/abhishek-2k23/Todo-RN/domain/todo"
	"gorm.io/gorm"
)

// ErrTodoNotFound is returned when a todo is absent or owned by someone else.
var ErrTodoNotFound = errors.New("todo not found")

// Repository handles todo persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the todos table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Todo{})
}

// Create inserts a new todo.
func (r *Repository) Create(ctx context.Context, t *domain.Todo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Save writes every column of an existing todo.
func (r *Repository) Save(ctx context.Context, t *domain.Todo) error {
	// UpdateColumns keeps gorm from restamping updated_at with its own clock.
	result := r.db.WithContext(ctx).Model(t).Select("*").UpdateColumns(t)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// FindForUser loads a todo only if userID owns it.
func (r *Repository) FindForUser(ctx context.Context, id, userID string) (*domain.Todo, error) {
	var t domain.Todo
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

// ListByUser returns a user's todos, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// DeleteForUser removes a todo only if userID owns it.
func (r *Repository) DeleteForUser(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

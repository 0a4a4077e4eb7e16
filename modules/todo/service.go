package todo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/todo"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ListCache is the cache-aside store for per-user todo lists. Lists are
// stored under a per-user version that every write bumps.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
}

// Publisher receives domain events raised by the service.
type Publisher interface {
	TodoCompleted(ctx context.Context, t *domain.Todo)
	TodoDeleted(ctx context.Context, t *domain.Todo)
}

// Service implements todo business rules.
type Service struct {
	repo      *Repository
	cache     ListCache
	publisher Publisher
	sfGroup   singleflight.Group
	now       func() time.Time
}

// NewService creates a new todo service. cache and publisher may be nil.
func NewService(repo *Repository, cache ListCache, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func listVersionKey(userID string) string {
	return "listver:" + userID
}

func listCacheKey(userID string, version int64) string {
	return fmt.Sprintf("list:%s:%d", userID, version)
}

// List returns the user's todos, newest first.
//
// The version is read before the database, so a list loaded before a
// concurrent write is stored under a version readers have already moved past.
func (s *Service) List(ctx context.Context, req ListTodosRequest) (*ListTodosResponse, error) {
	key := ""
	if s.cache != nil {
		version, err := s.cache.Version(ctx, listVersionKey(req.UserID))
		if err != nil {
			log.Printf("[todo] Cache error for user %s: %v", req.UserID, err)
		} else {
			key = listCacheKey(req.UserID, version)
		}
	}

	if key != "" {
		var cached ListTodosResponse
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[todo] Cache error for user %s: %v", req.UserID, err)
		}
		if found {
			return &cached, nil
		}
	}

	flight := key
	if flight == "" {
		flight = "list:" + req.UserID
	}
	// The load is shared, so one caller going away must not fail the others.
	loadCtx := context.WithoutCancel(ctx)
	val, err, _ := s.sfGroup.Do(flight, func() (any, error) {
		todos, err := s.repo.ListByUser(loadCtx, req.UserID)
		if err != nil {
			return nil, err
		}
		resp := &ListTodosResponse{Todos: make([]TodoResponse, 0, len(todos))}
		for i := range todos {
			resp.Todos = append(resp.Todos, toTodoResponse(&todos[i]))
		}
		return resp, nil
	})
	if err != nil {
		return nil, apperr.Internal("failed to list todos", err)
	}
	resp := val.(*ListTodosResponse)

	if key != "" {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			log.Printf("[todo] Warning: failed to cache list for user %s: %v", req.UserID, err)
		}
	}
	return resp, nil
}

// Create validates input, applies defaults and stores a new todo.
func (s *Service) Create(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	fields := map[string]string{}
	if msg := domain.ValidateTitle(req.Title); msg != "" {
		fields["title"] = msg
	}
	if msg := domain.ValidateDescription(req.Description); msg != "" {
		fields["description"] = msg
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.DefaultPriority
	}
	if !domain.ValidPriority(priority) {
		fields["priority"] = "priority must be one of low, medium, high"
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.DefaultCategory
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid todo", fields)
	}

	now := s.now()
	t := &domain.Todo{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperr.Internal("failed to create todo", err)
	}
	s.invalidate(ctx, req.UserID)

	resp := toTodoResponse(t)
	return &resp, nil
}

// Update merges the supplied fields into a todo the user owns.
func (s *Service) Update(ctx context.Context, req UpdateTodoRequest) (*TodoResponse, error) {
	t, err := s.repo.FindForUser(ctx, req.TodoID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			return nil, apperr.NotFound("todo")
		}
		return nil, apperr.Internal("failed to find todo", err)
	}

	fields := map[string]string{}
	if req.Title != nil {
		if msg := domain.ValidateTitle(*req.Title); msg != "" {
			fields["title"] = msg
		}
	}
	if req.Description != nil {
		if msg := domain.ValidateDescription(*req.Description); msg != "" {
			fields["description"] = msg
		}
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		fields["priority"] = "priority must be one of low, medium, high"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid todo", fields)
	}

	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Category != nil {
		t.Category = strings.TrimSpace(*req.Category)
		if t.Category == "" {
			t.Category = domain.DefaultCategory
		}
	}
	switch {
	case req.ClearDue:
		t.DueDate = nil
	case req.DueDate != nil:
		t.DueDate = req.DueDate
	}

	now := s.now()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	completedNow := false
	if req.Completed != nil {
		completedNow = t.SetCompleted(*req.Completed, now)
	}
	t.UpdatedAt = now

	if err := s.repo.Save(ctx, t); err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			return nil, apperr.NotFound("todo")
		}
		return nil, apperr.Internal("failed to update todo", err)
	}
	s.invalidate(ctx, req.UserID)

	if completedNow && s.publisher != nil {
		s.publisher.TodoCompleted(ctx, t)
	}

	resp := toTodoResponse(t)
	return &resp, nil
}

// Delete removes a todo the user owns.
func (s *Service) Delete(ctx context.Context, req DeleteTodoRequest) (*DeleteTodoResponse, error) {
	t, err := s.repo.FindForUser(ctx, req.TodoID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			return nil, apperr.NotFound("todo")
		}
		return nil, apperr.Internal("failed to find todo", err)
	}

	if err := s.repo.DeleteForUser(ctx, req.TodoID, req.UserID); err != nil {
		if errors.Is(err, ErrTodoNotFound) {
			return nil, apperr.NotFound("todo")
		}
		return nil, apperr.Internal("failed to delete todo", err)
	}
	s.invalidate(ctx, req.UserID)

	if s.publisher != nil {
		s.publisher.TodoDeleted(ctx, t)
	}

	return &DeleteTodoResponse{Message: "Todo deleted successfully"}, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	version, err := s.cache.Bump(ctx, listVersionKey(userID))
	if err != nil {
		log.Printf("[todo] Warning: failed to invalidate cache for user %s: %v", userID, err)
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey(userID, version-1)); err != nil {
		log.Printf("[todo] Warning: failed to evict cached list for user %s: %v", userID, err)
	}
}

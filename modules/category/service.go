package category

import (
	"context"
	"errors"
	"time"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	domain "github.com/abhishek-2k23/Todo-RN/domain/category"
	"github.com/google/uuid"
)

// Service implements category business rules.
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a new category service.
func NewService(repo *Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's categories sorted by name.
func (s *Service) List(ctx context.Context, req ListCategoriesRequest) (*ListCategoriesResponse, error) {
	categories, err := s.repo.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	resp := &ListCategoriesResponse{Categories: make([]CategoryResponse, 0, len(categories))}
	for i := range categories {
		resp.Categories = append(resp.Categories, toCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// Get returns one category the user owns.
func (s *Service) Get(ctx context.Context, req GetCategoryRequest) (*CategoryResponse, error) {
	c, err := s.find(ctx, req.CategoryID, req.UserID)
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

// Create adds a category with a name unique to the user.
func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	name, err := s.checkName(ctx, req.UserID, req.Name, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	c := &domain.Category{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			return nil, apperr.Conflict("Category already exists")
		}
		return nil, apperr.Internal("failed to create category", err)
	}

	resp := toCategoryResponse(c)
	return &resp, nil
}

// Update renames a category the user owns.
func (s *Service) Update(ctx context.Context, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.find(ctx, req.CategoryID, req.UserID)
	if err != nil {
		return nil, err
	}
	if c.Name == domain.Fallback {
		return nil, apperr.Field("name", "category \""+domain.Fallback+"\" cannot be renamed")
	}

	name, err := s.checkName(ctx, req.UserID, req.Name, c.ID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			return nil, apperr.Conflict("Category already exists")
		}
		return nil, apperr.Internal("failed to update category", err)
	}

	resp := toCategoryResponse(c)
	return &resp, nil
}

// Delete removes a category the user owns. Todos keep their category label.
func (s *Service) Delete(ctx context.Context, req DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	c, err := s.find(ctx, req.CategoryID, req.UserID)
	if err != nil {
		return nil, err
	}
	if c.Name == domain.Fallback {
		return nil, apperr.Field("name", "category \""+domain.Fallback+"\" cannot be removed")
	}

	if err := s.repo.DeleteForUser(ctx, c.ID, req.UserID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, apperr.Internal("failed to delete category", err)
	}
	return &DeleteCategoryResponse{Message: "Category deleted successfully"}, nil
}

// SeedDefaults creates the default categories the user does not have yet.
// Running it again is a no-op.
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	now := s.now()
	rows := make([]domain.Category, 0, len(domain.Defaults))
	for _, name := range domain.Defaults {
		rows = append(rows, domain.Category{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.repo.CreateMissing(ctx, rows); err != nil {
		return apperr.Internal("failed to seed categories", err)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id, userID string) (*domain.Category, error) {
	c, err := s.repo.FindForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, apperr.Internal("failed to find category", err)
	}
	return c, nil
}

func (s *Service) checkName(ctx context.Context, userID, raw, exceptID string) (string, error) {
	name := domain.NormalizeName(raw)
	if msg := domain.ValidateName(name); msg != "" {
		return "", apperr.Field("name", msg)
	}
	taken, err := s.repo.NameTaken(ctx, userID, name, exceptID)
	if err != nil {
		return "", apperr.Internal("failed to check category name", err)
	}
	if taken {
		return "", apperr.Conflict("Category already exists")
	}
	return name, nil
}

package category

import (
	"time"

	domain "github.com/abhishek-2k23/Todo-RN/domain/category"
)

// CategoryResponse is the wire view of a category.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListCategoriesRequest struct {
	UserID string `json:"user_id"`
}

// ListCategoriesResponse holds a user's categories sorted by name.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type GetCategoryRequest struct {
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
}

type CreateCategoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type UpdateCategoryRequest struct {
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type DeleteCategoryRequest struct {
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
}

type DeleteCategoryResponse struct {
	Message string `json:"message"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

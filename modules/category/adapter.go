package category

import (
	"context"
	"encoding/json"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CategoryPort defines category operations for driving adapters.
type CategoryPort interface {
	List(ctx context.Context, req ListCategoriesRequest) (*ListCategoriesResponse, error)
	Get(ctx context.Context, req GetCategoryRequest) (*CategoryResponse, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	Update(ctx context.Context, req UpdateCategoryRequest) (*CategoryResponse, error)
	Delete(ctx context.Context, req DeleteCategoryRequest) (*DeleteCategoryResponse, error)
}

var (
	_ CategoryPort = (*Service)(nil)
	_ CategoryPort = (*CategoryAdapter)(nil)
)

// CategoryAdapter implements CategoryPort via the category module's services.
type CategoryAdapter struct {
	container mono.ServiceContainer
}

// NewCategoryAdapter creates a new CategoryAdapter.
func NewCategoryAdapter(container mono.ServiceContainer) *CategoryAdapter {
	return &CategoryAdapter{container: container}
}

func (a *CategoryAdapter) List(ctx context.Context, req ListCategoriesRequest) (*ListCategoriesResponse, error) {
	var resp ListCategoriesResponse
	if err := callService(ctx, a.container, "list-categories", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *CategoryAdapter) Get(ctx context.Context, req GetCategoryRequest) (*CategoryResponse, error) {
	var resp CategoryResponse
	if err := callService(ctx, a.container, "get-category", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *CategoryAdapter) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var resp CategoryResponse
	if err := callService(ctx, a.container, "create-category", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *CategoryAdapter) Update(ctx context.Context, req UpdateCategoryRequest) (*CategoryResponse, error) {
	var resp CategoryResponse
	if err := callService(ctx, a.container, "update-category", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *CategoryAdapter) Delete(ctx context.Context, req DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	var resp DeleteCategoryResponse
	if err := callService(ctx, a.container, "delete-category", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return apperr.Parse(err)
	}
	return nil
}

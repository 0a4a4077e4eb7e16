package todo

import (
	"context"
	"encoding/json"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TodoPort defines todo operations for driving adapters such as the HTTP API.
type TodoPort interface {
	List(ctx context.Context, req ListTodosRequest) (*ListTodosResponse, error)
	Create(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)
	Update(ctx context.Context, req UpdateTodoRequest) (*TodoResponse, error)
	Delete(ctx context.Context, req DeleteTodoRequest) (*DeleteTodoResponse, error)
}

var (
	_ TodoPort = (*Service)(nil)
	_ TodoPort = (*TodoAdapter)(nil)
)

// TodoAdapter implements TodoPort via the todo module's services.
type TodoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a new TodoAdapter.
func NewTodoAdapter(container mono.ServiceContainer) *TodoAdapter {
	return &TodoAdapter{container: container}
}

func (a *TodoAdapter) List(ctx context.Context, req ListTodosRequest) (*ListTodosResponse, error) {
	var resp ListTodosResponse
	if err := callService(ctx, a.container, "list-todos", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *TodoAdapter) Create(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	var resp TodoResponse
	if err := callService(ctx, a.container, "create-todo", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *TodoAdapter) Update(ctx context.Context, req UpdateTodoRequest) (*TodoResponse, error) {
	var resp TodoResponse
	if err := callService(ctx, a.container, "update-todo", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *TodoAdapter) Delete(ctx context.Context, req DeleteTodoRequest) (*DeleteTodoResponse, error) {
	var resp DeleteTodoResponse
	if err := callService(ctx, a.container, "delete-todo", &req, &resp); err != nil {
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

package todo

import (
	"time"

	domain "github.com/abhishek-2k23/Todo-RN/domain/todo"
)

// TodoResponse is the wire view of a todo.
type TodoResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Priority    domain.Priority `json:"priority"`
	Category    string          `json:"category"`
	UserID      string          `json:"user"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListTodosRequest lists the todos of one user.
type ListTodosRequest struct {
	UserID string `json:"user_id"`
}

// ListTodosResponse holds a user's todos, newest first.
type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
}

// CreateTodoRequest creates a todo. Empty Priority and Category take the
// defaults.
type CreateTodoRequest struct {
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// UpdateTodoRequest merges the non-nil fields into the stored todo.
type UpdateTodoRequest struct {
	UserID      string           `json:"user_id"`
	TodoID      string           `json:"todo_id"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Completed   *bool            `json:"completed,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	ClearDue    bool             `json:"clearDueDate,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// DeleteTodoRequest deletes one todo owned by UserID.
type DeleteTodoRequest struct {
	UserID string `json:"user_id"`
	TodoID string `json:"todo_id"`
}

// DeleteTodoResponse confirms a deletion.
type DeleteTodoResponse struct {
	Message string `json:"message"`
}

func toTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

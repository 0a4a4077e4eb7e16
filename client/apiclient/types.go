package apiclient

import (
	"encoding/json"
	"time"

	"github.com/abhishek-2k23/Todo-RN/client/model"
)

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int64          `json:"expiresIn"`
	User         model.UserData `json:"user"`
}

// RegisterRequest creates an account. Either Username or Name is required.
type RegisterRequest struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest signs in with a username or an email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UpdateMeRequest changes the non-nil profile fields.
type UpdateMeRequest struct {
	Username *string `json:"username,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// CreateTodoRequest creates a todo. Empty Priority and Category take the
// server defaults.
type CreateTodoRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority,omitempty"`
	Category    string         `json:"category,omitempty"`
}

// UpdateTodoRequest is a partial update. Nil fields are left unchanged;
// ClearDueDate sends an explicit null for dueDate.
type UpdateTodoRequest struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *model.Priority
	Category     *string
}

// MarshalJSON writes only the supplied fields.
func (r UpdateTodoRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]any)
	if r.Title != nil {
		body["title"] = *r.Title
	}
	if r.Description != nil {
		body["description"] = *r.Description
	}
	if r.Completed != nil {
		body["completed"] = *r.Completed
	}
	switch {
	case r.ClearDueDate:
		body["dueDate"] = nil
	case r.DueDate != nil:
		body["dueDate"] = r.DueDate.UTC().Format(time.RFC3339Nano)
	}
	if r.Priority != nil {
		body["priority"] = *r.Priority
	}
	if r.Category != nil {
		body["category"] = *r.Category
	}
	return json.Marshal(body)
}

// ActivityEntry is one item of the recent-activity feed.
type ActivityEntry struct {
	Type      string    `json:"type"`
	TodoID    string    `json:"todoId,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

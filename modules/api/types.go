package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/abhishek-2k23/Todo-RN/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request. Any one of Identifier,
// Email or Username names the account.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (r LoginRequest) identifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Email != "":
		return r.Email
	default:
		return r.Username
	}
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int64          `json:"expiresIn"`
	User         domain.Profile `json:"user"`
}

// UpdateMeRequest changes only the supplied profile fields.
type UpdateMeRequest struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// CreateTodoRequest represents a todo creation request.
type CreateTodoRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     NullableTime `json:"dueDate"`
	Priority    string       `json:"priority"`
	Category    string       `json:"category"`
}

// UpdateTodoRequest carries a partial todo. Absent fields are left alone;
// an explicit null dueDate clears the due date.
type UpdateTodoRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Completed   *bool        `json:"completed"`
	DueDate     NullableTime `json:"dueDate"`
	Priority    *string      `json:"priority"`
	Category    *string      `json:"category"`
}

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

// MessageResponse acknowledges a deletion.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

// NullableTime tells an absent JSON field apart from an explicit null.
// It accepts RFC 3339 timestamps and plain dates.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dueDate must be a string: %w", err)
	}
	if s == "" {
		n.Value = nil
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			n.Value = &t
			return nil
		}
	}
	return fmt.Errorf("dueDate %q is not a valid date", s)
}

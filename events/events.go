package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted once an account has been created.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for registration.
// Subject: events.auth.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"auth", "UserRegistered", "v1",
)

// TodoCompletedEvent is emitted when a todo moves into the completed state.
type TodoCompletedEvent struct {
	TodoID      string    `json:"todo_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completed_at"`
}

// TodoCompletedV1 is the typed event definition for todo completion.
// Subject: events.todo.v1.todo-completed
var TodoCompletedV1 = helper.EventDefinition[TodoCompletedEvent](
	"todo", "TodoCompleted", "v1",
)

// TodoDeletedEvent is emitted when a todo is removed.
type TodoDeletedEvent struct {
	TodoID    string    `json:"todo_id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TodoDeletedV1 is the typed event definition for todo deletion.
// Subject: events.todo.v1.todo-deleted
var TodoDeletedV1 = helper.EventDefinition[TodoDeletedEvent](
	"todo", "TodoDeleted", "v1",
)

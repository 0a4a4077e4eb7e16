// Package todo holds the todo entity and its field rules.
package todo

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Priority ranks a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	// DefaultCategory is applied when a todo is created without one.
	DefaultCategory = "Other"
	// DefaultPriority is applied when a todo is created without one.
	DefaultPriority = PriorityLow

	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Todo is a user-owned unit of work.
type Todo struct {
	ID          string `gorm:"primaryKey;type:text"`
	UserID      string `gorm:"index;not null;type:text"`
	Title       string `gorm:"not null;type:text"`
	Description string `gorm:"type:text"`
	Completed   bool   `gorm:"not null;default:false"`
	CompletedAt *time.Time
	DueDate     *time.Time
	Priority    Priority `gorm:"not null;type:text;default:low"`
	Category    string   `gorm:"not null;type:text;default:Other"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}

// SetCompleted applies the completion transition: completedAt is stamped on
// false->true and cleared on true->false. It reports whether the todo moved
// into the completed state.
func (t *Todo) SetCompleted(completed bool, now time.Time) bool {
	switch {
	case completed && !t.Completed:
		t.Completed = true
		t.CompletedAt = &now
		return true
	case !completed && t.Completed:
		t.Completed = false
		t.CompletedAt = nil
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidateTitle returns a message describing why title is unacceptable, or "".
func ValidateTitle(title string) string {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	switch {
	case n == 0:
		return "title is required"
	case n > MaxTitleLength:
		return "title must be at most 100 characters"
	}
	return ""
}

// ValidateDescription returns a message describing why description is
// unacceptable, or "".
func ValidateDescription(description string) string {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "description must be at most 500 characters"
	}
	return ""
}

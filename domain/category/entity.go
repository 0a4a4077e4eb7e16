// Package category holds the user-owned category entity.
package category

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength bounds a category name.
const MaxNameLength = 50

// Fallback is the category a todo takes when none is given. It cannot be
// removed or renamed.
const Fallback = "Other"

// Defaults are seeded for every new account.
var Defaults = []string{"Work", "Personal", "Shopping", "Health", Fallback}

// Category is a user-defined label for grouping todos.
type Category struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"not null;type:text;uniqueIndex:idx_categories_user_name"`
	Name      string `gorm:"not null;type:text;uniqueIndex:idx_categories_user_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateName returns a message describing why name is unacceptable, or "".
func ValidateName(name string) string {
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return "name is required"
	case n > MaxNameLength:
		return "name must be at most 50 characters"
	case strings.EqualFold(name, "All"):
		return "name \"All\" is reserved"
	}
	return ""
}

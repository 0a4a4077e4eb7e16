package activity

import (
	"sync"
	"time"
)

// DefaultFeedSize bounds the number of entries kept per user.
const DefaultFeedSize = 50

// Entry types.
const (
	TypeAccountCreated = "account_created"
	TypeTodoCompleted  = "todo_completed"
	TypeTodoDeleted    = "todo_deleted"
)

// Entry is one item in a user's activity feed.
type Entry struct {
	Type      string    `json:"type"`
	TodoID    string    `json:"todoId,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed keeps the most recent entries per user in memory.
type Feed struct {
	mu      sync.RWMutex
	size    int
	entries map[string][]Entry
}

// NewFeed creates a feed that keeps at most size entries per user.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		size:    size,
		entries: make(map[string][]Entry),
	}
}

// Add records an entry for userID, dropping the oldest beyond the bound.
func (f *Feed) Add(userID string, e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[userID], e)
	if len(list) > f.size {
		list = list[len(list)-f.size:]
	}
	f.entries[userID] = list
}

// Latest returns up to limit entries for userID, newest first. A limit of
// zero or less returns everything kept.
func (f *Feed) Latest(userID string, limit int) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[userID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	result := make([]Entry, 0, limit)
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, list[i])
	}
	return result
}

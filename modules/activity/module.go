package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/abhishek-2k23/Todo-RN/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RecentRequest asks for a user's latest activity.
type RecentRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

// RecentResponse lists activity newest first.
type RecentResponse struct {
	Entries []Entry `json:"entries"`
}

// ActivityModule records per-user activity as a driven adapter.
// It subscribes to domain events using the EventConsumerModule interface.
type ActivityModule struct {
	feed *Feed
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)

// NewModule creates an ActivityModule keeping feedSize entries per user.
func NewModule(feedSize int) *ActivityModule {
	return &ActivityModule{feed: NewFeed(feedSize)}
}

func (m *ActivityModule) Name() string {
	return "activity"
}

func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCompletedV1, m.handleTodoCompleted, m); err != nil {
		return fmt.Errorf("failed to register TodoCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoDeletedV1, m.handleTodoDeleted, m); err != nil {
		return fmt.Errorf("failed to register TodoDeleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: UserRegistered, TodoCompleted, TodoDeleted")
	return nil
}

func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.handleRecent,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	log.Printf("[activity] Registered services: recent-activity")
	return nil
}

func (m *ActivityModule) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	log.Printf("[activity] User registered: %s", event.UserID)
	m.feed.Add(event.UserID, Entry{
		Type:      TypeAccountCreated,
		Message:   fmt.Sprintf("Welcome, %s!", event.Username),
		Timestamp: event.RegisteredAt,
	})
	return nil
}

func (m *ActivityModule) handleTodoCompleted(_ context.Context, event events.TodoCompletedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Todo completed: %s by user %s", event.TodoID, event.UserID)
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTodoCompleted,
		TodoID:    event.TodoID,
		Message:   fmt.Sprintf("Completed '%s'", event.Title),
		Timestamp: event.CompletedAt,
	})
	return nil
}

func (m *ActivityModule) handleTodoDeleted(_ context.Context, event events.TodoDeletedEvent, _ *mono.Msg) error {
	log.Printf("[activity] Todo deleted: %s by user %s", event.TodoID, event.UserID)
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTodoDeleted,
		TodoID:    event.TodoID,
		Message:   fmt.Sprintf("Todo %s deleted", event.TodoID),
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *ActivityModule) handleRecent(_ context.Context, req RecentRequest, _ *mono.Msg) (RecentResponse, error) {
	return RecentResponse{Entries: m.feed.Latest(req.UserID, req.Limit)}, nil
}

// Feed exposes the underlying feed.
func (m *ActivityModule) Feed() *Feed {
	return m.feed
}

func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for account and todo events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

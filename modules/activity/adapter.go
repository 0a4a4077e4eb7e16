package activity

import (
	"context"
	"encoding/json"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ActivityPort reads a user's activity feed.
type ActivityPort interface {
	Recent(ctx context.Context, req RecentRequest) (*RecentResponse, error)
}

var (
	_ ActivityPort = (*ActivityAdapter)(nil)
	_ ActivityPort = (*Feed)(nil)
)

// ActivityAdapter implements ActivityPort via the recent-activity service.
type ActivityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new ActivityAdapter.
func NewActivityAdapter(container mono.ServiceContainer) *ActivityAdapter {
	return &ActivityAdapter{container: container}
}

func (a *ActivityAdapter) Recent(ctx context.Context, req RecentRequest) (*RecentResponse, error) {
	var resp RecentResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"recent-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, apperr.Parse(err)
	}
	return &resp, nil
}

// Recent lets a Feed serve ActivityPort directly.
func (f *Feed) Recent(_ context.Context, req RecentRequest) (*RecentResponse, error) {
	return &RecentResponse{Entries: f.Latest(req.UserID, req.Limit)}, nil
}

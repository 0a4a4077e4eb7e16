package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhishek-2k23/Todo-RN/client/model"
	"github.com/rs/zerolog"
)

// Fixed storage keys.
const (
	KeyToken    = "token"
	KeyUserData = "userData"
	KeyTasks    = "tasks"
)

// Snapshot is the state read back at process start.
type Snapshot struct {
	Session model.Session
	Tasks   []model.Task
}

// Bridge writes the durable subset of the client state to a KV. It only acts
// when called; nothing is mirrored automatically.
type Bridge struct {
	kv  KV
	log zerolog.Logger
}

// NewBridge returns a Bridge over kv.
func NewBridge(kv KV, log zerolog.Logger) *Bridge {
	return &Bridge{kv: kv, log: log}
}

// SaveSession overwrites the token and profile. An empty token or a nil
// profile deletes the corresponding key.
func (b *Bridge) SaveSession(ctx context.Context, s model.Session) error {
	if s.Token == "" {
		if err := b.kv.Delete(ctx, KeyToken); err != nil {
			return err
		}
	} else if err := b.kv.Set(ctx, KeyToken, []byte(s.Token)); err != nil {
		return err
	}

	if s.UserData == nil {
		return b.kv.Delete(ctx, KeyUserData)
	}
	data, err := json.Marshal(s.UserData)
	if err != nil {
		return fmt.Errorf("failed to encode user data: %w", err)
	}
	return b.kv.Set(ctx, KeyUserData, data)
}

// SaveToken overwrites only the token.
func (b *Bridge) SaveToken(ctx context.Context, token string) error {
	return b.kv.Set(ctx, KeyToken, []byte(token))
}

// ClearSession removes the token and profile. Tasks are kept.
func (b *Bridge) ClearSession(ctx context.Context) error {
	return errors.Join(
		b.kv.Delete(ctx, KeyToken),
		b.kv.Delete(ctx, KeyUserData),
	)
}

// SaveTasks overwrites the stored task array.
func (b *Bridge) SaveTasks(ctx context.Context, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	return b.kv.Set(ctx, KeyTasks, data)
}

// Restore reads the persisted state once. Missing, unreadable and corrupt
// records all come back as absent. The profile is only returned together
// with a token.
func (b *Bridge) Restore(ctx context.Context) Snapshot {
	var snap Snapshot

	if raw, ok := b.read(ctx, KeyToken); ok {
		snap.Session.Token = string(raw)
	}

	if snap.Session.Token != "" {
		if raw, ok := b.read(ctx, KeyUserData); ok {
			var u *model.UserData
			if err := json.Unmarshal(raw, &u); err != nil {
				b.log.Warn().Err(err).Str("key", KeyUserData).Msg("ignoring corrupt record")
			} else {
				snap.Session.UserData = u
			}
		}
	}

	if raw, ok := b.read(ctx, KeyTasks); ok {
		var tasks []model.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			b.log.Warn().Err(err).Str("key", KeyTasks).Msg("ignoring corrupt record")
		} else {
			snap.Tasks = tasks
		}
	}

	return snap
}

func (b *Bridge) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := b.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		b.log.Warn().Err(err).Str("key", key).Msg("failed to read persisted state")
		return nil, false
	}
	return raw, true
}

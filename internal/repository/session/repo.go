// Package session persists journaling sessions as hashes with a per-user
// sorted-set index ordered by creation time.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/whispers-app/journal-api/internal/domain"
)

// store is the consumer interface for sessions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo implements session storage over a hash store.
type Repo struct {
	store store
}

// New creates a session repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a session hash and indexes it under the owning user.
func (r *Repo) Create(ctx context.Context, s domain.Session) error {
	if err := r.store.HSet(ctx, sessionKey(s.ID), sessionToHash(s)); err != nil {
		return fmt.Errorf("hset session %s: %w", s.ID, err)
	}

	if err := r.store.ZAdd(ctx, userIndexKey(s.UserID), s.ID, createdAtScore(s.CreatedAt)); err != nil {
		return fmt.Errorf("index session %s: %w", s.ID, err)
	}
	return nil
}

// Get retrieves a session by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Session, error) {
	m, err := r.store.HGetAll(ctx, sessionKey(id))
	if err != nil {
		return domain.Session{}, fmt.Errorf("hgetall session %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sessionFromHash(m), nil
}

// SetFields partially updates a session hash. The session must exist.
func (r *Repo) SetFields(ctx context.Context, id string, fields map[string]string) error {
	exists, err := r.store.Exists(ctx, sessionKey(id))
	if err != nil {
		return fmt.Errorf("check session %s: %w", id, err)
	}
	if !exists {
		return domain.ErrSessionNotFound
	}

	if err := r.store.HSet(ctx, sessionKey(id), fields); err != nil {
		return fmt.Errorf("hset session %s: %w", id, err)
	}
	return nil
}

// ListByUser returns the user's sessions, newest first.
// Index members whose hash has disappeared are skipped.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	ids, err := r.store.ZRevRange(ctx, userIndexKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("zrange user sessions %s: %w", userID, err)
	}
	if len(ids) == 0 {
		return []domain.Session{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		sessions = append(sessions, sessionFromHash(m))
	}
	return sessions, nil
}

// Valkey key patterns: journal:session:{id}, journal:user_sessions:{user_id}

func sessionKey(id string) string {
	return "journal:session:" + id
}

func userIndexKey(userID string) string {
	return "journal:user_sessions:" + userID
}

// createdAtScore maps the created_at timestamp to a sort score.
// Unparseable timestamps sort to the beginning rather than failing the write.
func createdAtScore(createdAt string) float64 {
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return 0
	}
	return float64(t.UnixMilli())
}

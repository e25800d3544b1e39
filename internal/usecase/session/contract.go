package session

import (
	"context"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Repository defines the storage contract for sessions.
type Repository interface {
	Create(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	SetFields(ctx context.Context, id string, fields map[string]string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
}

// Index reads entry documents from the search index.
type Index interface {
	QueryEntries(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error)
}

package stats

import (
	"context"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Repository lists a user's sessions, newest first.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
}

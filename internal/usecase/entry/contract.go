package entry

import (
	"context"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Index is the search index the entries live in.
type Index interface {
	QueryEntries(ctx context.Context, query, filters string, hitsPerPage int) ([]domain.Entry, error)
	SaveEntry(ctx context.Context, entry domain.Entry) error
}

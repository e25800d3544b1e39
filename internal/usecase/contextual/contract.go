package contextual

import (
	"context"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Generator produces text completions for intent extraction and synthesis.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Index queries the journal search index.
type Index interface {
	Query(ctx context.Context, term, filters string, hitsPerPage int) ([]domain.Hit, error)
}

// Memory is the bounded log of past queries and their summaries.
// Both operations are best-effort: failures degrade to an empty log
// and a dropped write, never to a failed search.
type Memory interface {
	Load(ctx context.Context) []domain.MemoryEntry
	Append(ctx context.Context, entry domain.MemoryEntry)
}

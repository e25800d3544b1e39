package chi

import (
	"context"

	"github.com/whispers-app/journal-api/internal/domain"
	entryuc "github.com/whispers-app/journal-api/internal/usecase/entry"
	healthuc "github.com/whispers-app/journal-api/internal/usecase/health"
	promptuc "github.com/whispers-app/journal-api/internal/usecase/prompt"
)

// Searcher runs the contextual search pipeline.
type Searcher interface {
	Search(ctx context.Context, query, userID string) (domain.SearchAnswer, error)
}

// Summarizer produces digests and tone rewrites.
type Summarizer interface {
	Digest(ctx context.Context, text string) (domain.Digest, error)
	RewriteTone(ctx context.Context, text, preset, intensity, overlay string) (domain.Rewrite, error)
}

// SessionManager handles session lifecycle.
type SessionManager interface {
	Start(ctx context.Context, userID string, isFromPrompt bool) (domain.Session, error)
	Update(ctx context.Context, userID, sessionID, title, summary string) error
	Get(ctx context.Context, userID, sessionID string) (domain.Session, error)
	List(ctx context.Context, userID string) ([]domain.Session, error)
}

// EntryManager indexes and lists journal entries.
type EntryManager interface {
	Upsert(ctx context.Context, userID string, e domain.Entry) (entryuc.UpsertResult, error)
	List(ctx context.Context, userID string) ([]domain.Entry, error)
}

// StatsProvider computes usage statistics.
type StatsProvider interface {
	ForUser(ctx context.Context, userID string) (domain.Stats, error)
}

// PromptProvider picks the daily prompt.
type PromptProvider interface {
	Today() promptuc.Daily
}

// TokenIssuer issues streaming-transcription tokens.
type TokenIssuer interface {
	Token(ctx context.Context) (string, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

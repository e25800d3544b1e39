package contextual

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

// mockGenerator implements Generator for tests.
type mockGenerator struct {
	generateFn func(ctx context.Context, prompt string, maxTokens int) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt, maxTokens)
	}
	return "", nil
}

// mockIndex implements Index for tests.
type mockIndex struct {
	queryFn func(ctx context.Context, term, filters string, hitsPerPage int) ([]domain.Hit, error)
}

func (m *mockIndex) Query(ctx context.Context, term, filters string, hitsPerPage int) ([]domain.Hit, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, term, filters, hitsPerPage)
	}
	return nil, nil
}

// mockMemory implements Memory for tests.
type mockMemory struct {
	loadFn   func(ctx context.Context) []domain.MemoryEntry
	appendFn func(ctx context.Context, entry domain.MemoryEntry)
}

func (m *mockMemory) Load(ctx context.Context) []domain.MemoryEntry {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return nil
}

func (m *mockMemory) Append(ctx context.Context, entry domain.MemoryEntry) {
	if m.appendFn != nil {
		m.appendFn(ctx, entry)
	}
}

func newTestService(t *testing.T) (*Service, *mockGenerator, *mockIndex, *mockMemory) {
	t.Helper()
	gen := &mockGenerator{}
	idx := &mockIndex{}
	mem := &mockMemory{}
	svc := New(gen, idx, mem, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	return svc, gen, idx, mem
}

// intentJSON is a canned stage-1 response used across tests.
func intentJSON(isSearch string, terms ...string) string {
	out := `{"is_search": "` + isSearch + `", "search_terms": [`
	for i, t := range terms {
		if i > 0 {
			out += ", "
		}
		out += `"` + t + `"`
	}
	return out + `], "intent": "test", "response": "Searching now."}`
}

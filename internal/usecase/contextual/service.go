// Package contextual implements the multi-stage contextual journal search:
// intent extraction, memory lookup, per-term index search, relevance
// ranking, synthesis, and memory write-back.
package contextual

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

const (
	hitsPerTerm        = 10
	synthesisMaxTokens = 256
	synthesisHitLimit  = 5
)

// Service orchestrates the search pipeline.
type Service struct {
	gen        Generator
	index      Index
	memory     Memory
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a contextual search service.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	gen Generator,
	index Index,
	memory Memory,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		gen:        gen,
		index:      index,
		memory:     memory,
		cacheTotal: cacheTotal,
		logger:     logger,
		now:        time.Now,
	}
}

// Search runs the full pipeline for one query. Individual stages degrade
// rather than fail: a dead model falls back to query-derived terms and a
// counted summary, a failed term query is skipped, and memory writes are
// best-effort. Only an empty query is an error.
func (s *Service) Search(ctx context.Context, query, userID string) (domain.SearchAnswer, error) {
	if strings.TrimSpace(query) == "" {
		return domain.SearchAnswer{}, domain.ErrEmptyQuery
	}

	answer := domain.SearchAnswer{
		OriginalQuery: query,
		SearchTerms:   []string{},
		Hits:          []domain.Hit{},
		Timestamp:     s.now().Format(time.RFC3339),
	}

	// Stage 1: intent extraction
	in := s.extractIntent(ctx, query)
	answer.SearchTerms = in.terms
	answer.Acknowledgment = in.ack

	// Stage 2: memory lookup
	if cached, ok := s.checkMemory(ctx, query); ok {
		s.incCache("hit")
		answer.MemoryUsed = true
		answer.FinalSummary = cached.Summary
		answer.Source = domain.SourceCached
		return answer, nil
	}
	s.incCache("miss")

	if !in.isSearch {
		answer.FinalSummary = in.ack
		answer.Source = domain.SourceGenerated
		return answer, nil
	}

	// Stage 3: per-term index search, deduplicated, then ranked
	answer.Hits = s.runSearches(ctx, in.terms, userID)

	// Stage 4: synthesis
	answer.FinalSummary, answer.Source = s.synthesize(ctx, query, in.terms, answer.Hits)

	// Stage 5: memory write-back
	s.memory.Append(ctx, domain.MemoryEntry{
		Query:       query,
		SearchTerms: in.terms,
		Summary:     answer.FinalSummary,
		Timestamp:   s.now().Format(time.RFC3339),
	})

	return answer, nil
}

// checkMemory scans the log oldest-first and returns the first entry any
// of whose stored terms appears in the lowercased query.
func (s *Service) checkMemory(ctx context.Context, query string) (domain.MemoryEntry, bool) {
	queryLower := strings.ToLower(query)
	for _, entry := range s.memory.Load(ctx) {
		for _, term := range entry.SearchTerms {
			if term == "" {
				continue
			}
			if strings.Contains(queryLower, strings.ToLower(term)) {
				return entry, true
			}
		}
	}
	return domain.MemoryEntry{}, false
}

// runSearches queries the index once per term and merges the hits,
// keeping the first occurrence of each object id. A failed term is
// skipped; hits from the terms that succeeded are kept.
func (s *Service) runSearches(ctx context.Context, terms []string, userID string) []domain.Hit {
	filters := ""
	if userID != "" {
		filters = "user_id:" + userID
	}

	merged := []domain.Hit{}
	seen := make(map[string]struct{})
	for _, term := range terms {
		hits, err := s.index.Query(ctx, term, filters, hitsPerTerm)
		if err != nil {
			s.logger.Warn("Index query failed, skipping term",
				zap.String("term", term), zap.Error(err))
			continue
		}
		for _, h := range hits {
			if h.ObjectID == "" {
				continue
			}
			if _, ok := seen[h.ObjectID]; ok {
				continue
			}
			seen[h.ObjectID] = struct{}{}
			merged = append(merged, h)
		}
	}

	return rankHits(merged, terms)
}

const synthesisPromptFmt = "You are analyzing journal search results for a user. " +
	"Original query: '%s' " +
	"Search terms used: %s " +
	"Found %d relevant entries. " +
	"Provide a concise, insightful summary (2-3 sentences) that: " +
	"1. Acknowledges what was found " +
	"2. Highlights any patterns or insights " +
	"3. Uses a warm, personal tone " +
	"Focus on the most relevant findings and any emotional or temporal patterns. " +
	"Results: %s"

// synthesize produces the final summary over the top hits. On failure it
// falls back to a deterministic count-based summary.
func (s *Service) synthesize(
	ctx context.Context, query string, terms []string, hits []domain.Hit,
) (string, domain.Source) {
	top := hits
	if len(top) > synthesisHitLimit {
		top = top[:synthesisHitLimit]
	}
	hitsJSON, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		hitsJSON = []byte("[]")
	}

	prompt := fmt.Sprintf(synthesisPromptFmt, query, strings.Join(terms, ", "), len(hits), hitsJSON)
	summary, err := s.gen.Generate(ctx, prompt, synthesisMaxTokens)
	if err != nil {
		s.logger.Warn("Synthesis failed, using fallback summary", zap.Error(err))
		return fallbackSummary(terms, len(hits)), domain.SourceFallback
	}
	return strings.TrimSpace(summary), domain.SourceGenerated
}

func fallbackSummary(terms []string, hitCount int) string {
	if hitCount == 0 {
		return "No relevant entries found for your query."
	}
	return fmt.Sprintf("Found %d relevant entries for your query about %s.",
		hitCount, strings.Join(terms, ", "))
}

func (s *Service) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

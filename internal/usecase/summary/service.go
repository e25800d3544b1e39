// Package summary turns raw journal text into a title/summary/tags digest
// and rewrites text in a requested tone.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

const (
	digestMaxTokens  = 256
	rewriteMaxTokens = 512
)

// Service handles summarization and tone rewriting.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// New creates a summary service.
func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

const digestPromptFmt = "Given the following journal entry, generate: " +
	"1. A short, relevant title (3-7 words, no punctuation). " +
	"2. A concise summary (1-2 sentences, no advice or analysis). " +
	"3. 3-5 tags (single words or short phrases). " +
	"Return ONLY a valid JSON object with keys: 'title', 'summary', 'tags'. " +
	"Do NOT include any markdown, code block, or extra text. " +
	`Example: {"title": "Burnout at work", "summary": "Felt burnt out after a long week.", "tags": ["burnout", "work"]} ` +
	"\n\nJournal Entry:\n%s"

// Digest summarizes a journal entry into a title, summary, and tags.
// Unparseable model output degrades to the raw text as the summary with
// empty title and tags; a failed generation call is an error.
func (s *Service) Digest(ctx context.Context, text string) (domain.Digest, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Digest{}, domain.ErrEmptyText
	}

	out, err := s.gen.Generate(ctx, fmt.Sprintf(digestPromptFmt, text), digestMaxTokens)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("generate digest: %w", err)
	}

	return parseDigest(out, s.logger), nil
}

// parseDigest leniently parses model output. Some models return the JSON
// object doubly encoded as a JSON string; unwrap one level before giving up.
func parseDigest(out string, logger *zap.Logger) domain.Digest {
	cleaned := stripCodeFences(out)

	payload := []byte(cleaned)
	var inner string
	if err := json.Unmarshal(payload, &inner); err == nil {
		payload = []byte(inner)
	}

	var parsed struct {
		Title   string   `json:"title"`
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		logger.Warn("Digest response is not valid JSON, keeping raw text", zap.Error(err))
		return domain.Digest{Summary: out, Tags: []string{}}
	}

	tags := parsed.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Digest{Title: parsed.Title, Summary: parsed.Summary, Tags: tags}
}

var codeFenceRe = regexp.MustCompile("(?m)^```(?:json)?|```$")

func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

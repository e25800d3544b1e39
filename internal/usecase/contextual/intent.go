package contextual

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	intentMaxTokens   = 512
	fallbackTermLimit = 3
)

// intent is the stage-1 result: whether the query needs an index search,
// the extracted terms, and the acknowledgment shown to the user.
type intent struct {
	isSearch bool
	terms    []string
	ack      string
}

const intentPromptFmt = "You are an AI assistant for a journaling app. " +
	"Analyze the user's query and extract intent and search terms. " +
	"Return a JSON object with: " +
	"1. 'is_search': 'yes' if this requires searching past entries, 'no' otherwise " +
	"2. 'search_terms': array of specific, relevant search terms " +
	"3. 'intent': brief description of what the user is looking for " +
	"4. 'response': a helpful, natural response about what you'll search for " +
	`Example: {"is_search": "yes", "search_terms": ["productivity", "morning"], ` +
	`"intent": "finding productivity patterns", ` +
	`"response": "I'll search for entries about your productivity and morning routines."} ` +
	"User query: %s"

// extractIntent asks the model to classify the query and pull out search
// terms. Any failure (transport, malformed JSON) degrades to a fallback
// intent built from the query itself; stage 1 never fails the pipeline.
func (s *Service) extractIntent(ctx context.Context, query string) intent {
	out, err := s.gen.Generate(ctx, fmt.Sprintf(intentPromptFmt, query), intentMaxTokens)
	if err != nil {
		s.logger.Warn("Intent extraction failed, using fallback terms", zap.Error(err))
		return fallbackIntent(query)
	}

	var parsed struct {
		IsSearch    string   `json:"is_search"`
		SearchTerms []string `json:"search_terms"`
		Intent      string   `json:"intent"`
		Response    string   `json:"response"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(out)), &parsed); err != nil {
		s.logger.Warn("Intent response is not valid JSON, using fallback terms", zap.Error(err))
		return fallbackIntent(query)
	}

	terms := parsed.SearchTerms
	if terms == nil {
		terms = []string{}
	}
	return intent{
		isSearch: strings.EqualFold(strings.TrimSpace(parsed.IsSearch), "yes"),
		terms:    terms,
		ack:      parsed.Response,
	}
}

// fallbackIntent treats the query as a search over its first few
// lowercased words.
func fallbackIntent(query string) intent {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) > fallbackTermLimit {
		terms = terms[:fallbackTermLimit]
	}
	return intent{
		isSearch: true,
		terms:    terms,
		ack:      "I'll search for entries related to your query: " + query,
	}
}

// Models often wrap JSON in markdown code fences despite instructions.
var codeFenceRe = regexp.MustCompile("(?m)^```(?:json)?|```$")

func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

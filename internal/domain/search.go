package domain

// Hit is a single entry document returned by the search index.
// Timestamp stays an ISO-8601 string: it sorts correctly lexicographically
// and is never parsed by the search pipeline.
type Hit struct {
	ObjectID  string   `json:"objectID"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	Timestamp string   `json:"timestamp"`
}

// Source tells where a search answer came from.
type Source string

const (
	// SourceGenerated marks an answer synthesized by the generation provider.
	SourceGenerated Source = "generated"
	// SourceCached marks an answer served from the memory log.
	SourceCached Source = "cached"
	// SourceFallback marks a templated answer produced after a provider failure.
	SourceFallback Source = "fallback"
)

// SearchAnswer is the result of one contextual search run.
type SearchAnswer struct {
	OriginalQuery  string   `json:"original_query"`
	SearchTerms    []string `json:"search_terms"`
	Acknowledgment string   `json:"stage1_response"`
	Hits           []Hit    `json:"algolia_hits"`
	FinalSummary   string   `json:"final_summary"`
	MemoryUsed     bool     `json:"memory_used"`
	Source         Source   `json:"source"`
	Timestamp      string   `json:"timestamp"`
}

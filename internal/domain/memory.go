package domain

// MemoryEntry is one cached query/answer pair in the memory log.
type MemoryEntry struct {
	Query       string   `json:"query"`
	SearchTerms []string `json:"search_terms"`
	Summary     string   `json:"summary"`
	Timestamp   string   `json:"timestamp"`
}

// MemoryLogLimit bounds the memory log to the most recent entries,
// oldest evicted first by append order.
const MemoryLogLimit = 50

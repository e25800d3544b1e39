package domain

// Entry is a journal entry document as stored in the search index.
type Entry struct {
	ObjectID  string   `json:"objectID"`
	EntryID   string   `json:"entry_id"`
	UserID    string   `json:"user_id"`
	SessionID string   `json:"session_id"`
	Date      string   `json:"date"`
	Timestamp string   `json:"timestamp"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags"`
	Text      string   `json:"text"`
	AudioURL  string   `json:"audio_url,omitempty"`
}

// Digest is the AI-generated title/summary/tags triple for an entry.
type Digest struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

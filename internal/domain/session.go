package domain

// Session is one journaling session.
// Text and Tags live in the search index, not in the session store; they are
// joined in on read and stay empty until the entry has been indexed.
type Session struct {
	ID           string   `json:"session_id"`
	UserID       string   `json:"user_id"`
	Date         string   `json:"date"`
	CreatedAt    string   `json:"created_at"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	IsFromPrompt bool     `json:"is_from_prompt"`
	Text         string   `json:"text,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// Complete reports whether the session has been summarized.
// Sessions without a title and summary are drafts and are hidden from
// listings and statistics.
func (s Session) Complete() bool {
	return s.Title != "" && s.Summary != ""
}

package domain

// Stats summarizes a user's journaling activity. Only complete sessions
// (title and summary present) are counted.
type Stats struct {
	TotalSessions    int    `json:"total_sessions"`
	UniqueDays       int    `json:"unique_days"`
	SessionsThisWeek int    `json:"sessions_this_week"`
	SessionsLastWeek int    `json:"sessions_last_week"`
	CurrentStreak    int    `json:"current_streak"`
	HighestStreak    int    `json:"highest_streak"`
	FirstSessionDate string `json:"first_session_date,omitempty"`
	LastSessionDate  string `json:"last_session_date,omitempty"`
}

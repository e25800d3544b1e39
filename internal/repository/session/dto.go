package session

import (
	"strconv"

	"github.com/whispers-app/journal-api/internal/domain"
)

// sessionToHash converts a domain Session to a map for HSET.
// Text and tags are not stored here; they live in the search index.
func sessionToHash(s domain.Session) map[string]string {
	return map[string]string{
		"session_id":     s.ID,
		"user_id":        s.UserID,
		"date":           s.Date,
		"created_at":     s.CreatedAt,
		"title":          s.Title,
		"summary":        s.Summary,
		"is_from_prompt": strconv.FormatBool(s.IsFromPrompt),
	}
}

// sessionFromHash hydrates a domain Session from an HGETALL result map.
func sessionFromHash(m map[string]string) domain.Session {
	isFromPrompt, _ := strconv.ParseBool(m["is_from_prompt"])
	return domain.Session{
		ID:           m["session_id"],
		UserID:       m["user_id"],
		Date:         m["date"],
		CreatedAt:    m["created_at"],
		Title:        m["title"],
		Summary:      m["summary"],
		IsFromPrompt: isFromPrompt,
	}
}

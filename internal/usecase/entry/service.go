// Package entry manages journal entry documents in the search index.
package entry

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

// listPageSize bounds a full-account listing; one page covers it.
const listPageSize = 1000

// UpsertResult reports whether an upsert created or updated a document.
type UpsertResult struct {
	Result  string `json:"result"`
	EntryID string `json:"entry_id"`
}

// Service handles entry indexing and listing.
type Service struct {
	index  Index
	logger *zap.Logger
}

// New creates an entry service.
func New(index Index, logger *zap.Logger) *Service {
	return &Service{index: index, logger: logger}
}

// Upsert indexes an entry for the user. A session has at most one entry:
// an existing document for the same session is updated in place, otherwise
// a new object id is minted. The owner always comes from the
// authenticated user, never from the payload.
func (s *Service) Upsert(ctx context.Context, userID string, e domain.Entry) (UpsertResult, error) {
	if err := validate(e); err != nil {
		return UpsertResult{}, err
	}
	e.UserID = userID

	filters := fmt.Sprintf("session_id:%s AND user_id:%s", e.SessionID, userID)
	existing, err := s.index.QueryEntries(ctx, "", filters, 1)
	if err != nil {
		// The lookup is advisory. Worst case we mint a new id for a
		// session that already had one.
		s.logger.Warn("Entry lookup failed, creating new document",
			zap.String("session_id", e.SessionID), zap.Error(err))
	}

	result := "created"
	if len(existing) > 0 {
		e.ObjectID = existing[0].ObjectID
		result = "updated"
	} else {
		e.ObjectID = uuid.NewString()
	}
	e.EntryID = e.ObjectID

	if err := s.index.SaveEntry(ctx, e); err != nil {
		return UpsertResult{}, fmt.Errorf("save entry: %w", err)
	}
	return UpsertResult{Result: result, EntryID: e.EntryID}, nil
}

// List returns all of the user's entries, newest first by timestamp.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	entries, err := s.index.QueryEntries(ctx, "", "user_id:"+userID, listPageSize)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

func validate(e domain.Entry) error {
	missing := []string{}
	for _, f := range []struct{ name, value string }{
		{"session_id", e.SessionID},
		{"date", e.Date},
		{"timestamp", e.Timestamp},
		{"title", e.Title},
		{"summary", e.Summary},
		{"text", e.Text},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if e.Tags == nil {
		missing = append(missing, "tags")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %v", domain.ErrInvalidEntry, missing)
	}
	return nil
}

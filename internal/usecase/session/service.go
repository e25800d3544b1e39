// Package session manages journaling sessions.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Service handles session lifecycle.
type Service struct {
	repo   Repository
	index  Index
	logger *zap.Logger
	now    func() time.Time
}

// New creates a session service.
func New(repo Repository, index Index, logger *zap.Logger) *Service {
	return &Service{repo: repo, index: index, logger: logger, now: time.Now}
}

// Start creates a new session for the user.
func (s *Service) Start(ctx context.Context, userID string, isFromPrompt bool) (domain.Session, error) {
	now := s.now().UTC()
	session := domain.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         now.Format("2006-01-02"),
		CreatedAt:    now.Format(time.RFC3339),
		IsFromPrompt: isFromPrompt,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Update sets the session's title and/or summary. Empty values are left
// untouched. The session must exist and belong to the user.
func (s *Service) Update(ctx context.Context, userID, sessionID, title, summary string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session_id is required", domain.ErrInvalidSession)
	}

	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}

	fields := map[string]string{}
	if title != "" {
		fields["title"] = title
	}
	if summary != "" {
		fields["summary"] = summary
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.repo.SetFields(ctx, sessionID, fields); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Get returns the user's session with entry text and tags joined in from
// the search index. An unreachable index degrades to the bare session.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}

	filters := fmt.Sprintf("session_id:%s AND user_id:%s", sessionID, userID)
	entries, err := s.index.QueryEntries(ctx, "", filters, 1)
	if err != nil {
		s.logger.Warn("Failed to join entry text from index",
			zap.String("session_id", sessionID), zap.Error(err))
		return session, nil
	}
	if len(entries) > 0 {
		session.Text = entries[0].Text
		session.Tags = entries[0].Tags
	}
	return session, nil
}

// List returns the user's complete sessions, newest first. Draft sessions
// (no title or summary yet) are filtered out.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Session, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(all))
	for _, session := range all {
		if session.Complete() {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// ownedSession loads a session and hides its existence from other users.
func (s *Service) ownedSession(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

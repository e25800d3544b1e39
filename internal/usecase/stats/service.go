// Package stats computes journaling activity statistics.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/whispers-app/journal-api/internal/domain"
)

const day = 24 * time.Hour

// Service computes per-user usage statistics.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// New creates a stats service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ForUser computes statistics over the user's complete sessions. Draft
// sessions (no title or summary) are excluded, matching listings.
func (s *Service) ForUser(ctx context.Context, userID string) (domain.Stats, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.Session, 0, len(all))
	for _, session := range all {
		if session.Complete() {
			sessions = append(sessions, session)
		}
	}
	if len(sessions) == 0 {
		return domain.Stats{}, nil
	}

	now := s.now().UTC()
	result := domain.Stats{
		TotalSessions: len(sessions),
		// Repository order is newest first.
		LastSessionDate:  sessions[0].CreatedAt,
		FirstSessionDate: sessions[len(sessions)-1].CreatedAt,
	}

	weekAgo := now.Add(-7 * day)
	twoWeeksAgo := now.Add(-14 * day)
	for _, session := range sessions {
		created, err := time.Parse(time.RFC3339Nano, session.CreatedAt)
		if err != nil {
			s.logger.Warn("Skipping session with unparseable created_at",
				zap.String("session_id", session.ID), zap.Error(err))
			continue
		}
		switch {
		case created.After(weekAgo):
			result.SessionsThisWeek++
		case created.After(twoWeeksAgo):
			result.SessionsLastWeek++
		}
	}

	days := uniqueDays(sessions)
	result.UniqueDays = len(days)
	result.CurrentStreak, result.HighestStreak = streaks(days, now)

	return result, nil
}

// uniqueDays returns the distinct journaling dates in ascending order.
func uniqueDays(sessions []domain.Session) []time.Time {
	seen := make(map[string]struct{})
	days := make([]time.Time, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := seen[session.Date]; ok {
			continue
		}
		d, err := time.Parse("2006-01-02", session.Date)
		if err != nil {
			continue
		}
		seen[session.Date] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// streaks computes the current and highest runs of consecutive journaling
// days. The current streak counts only when its last day is today or
// yesterday; otherwise it has been broken.
func streaks(days []time.Time, now time.Time) (current, highest int) {
	if len(days) == 0 {
		return 0, 0
	}

	run := 1
	highest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == day {
			run++
		} else {
			run = 1
		}
		if run > highest {
			highest = run
		}
	}

	today := now.Truncate(day)
	last := days[len(days)-1]
	if last.Equal(today) || last.Equal(today.Add(-day)) {
		current = run
	}
	return current, highest
}

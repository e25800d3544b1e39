package contextual

import (
	"sort"
	"strings"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Field weights for term matches.
const (
	titleWeight   = 3
	summaryWeight = 2
	tagWeight     = 1
)

// rankHits orders hits by relevance score, breaking ties by timestamp
// descending (ISO-8601 strings compare chronologically). The sort is
// stable, so hits tied on both keys keep index order.
func rankHits(hits []domain.Hit, terms []string) []domain.Hit {
	scores := make([]int, len(hits))
	for i, h := range hits {
		scores[i] = relevanceScore(h, terms)
	}

	idx := make([]int, len(hits))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return hits[i].Timestamp > hits[j].Timestamp
	})

	ranked := make([]domain.Hit, len(hits))
	for out, i := range idx {
		ranked[out] = hits[i]
	}
	return ranked
}

// relevanceScore counts case-insensitive substring matches per term:
// title is worth the most, then summary, then tags. Each term contributes
// each field weight at most once.
func relevanceScore(h domain.Hit, terms []string) int {
	title := strings.ToLower(h.Title)
	summary := strings.ToLower(h.Summary)

	score := 0
	for _, term := range terms {
		t := strings.ToLower(term)
		if strings.Contains(title, t) {
			score += titleWeight
		}
		if strings.Contains(summary, t) {
			score += summaryWeight
		}
		for _, tag := range h.Tags {
			if strings.Contains(strings.ToLower(tag), t) {
				score += tagWeight
				break
			}
		}
	}
	return score
}

// Package worklist orders the merged message list the way the operator
// sees it: filtered by search text and status tab, highest priority first,
// most recent first within a priority.
package worklist

import (
	"sort"
	"strings"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// TabAll is the tab value that matches every status.
const TabAll = "all"

// Rank filters messages by search text and active tab, then sorts by
// priority rank ascending with a coarse recency bucket as tie-break.
// It is pure: the input slice is never mutated, and identical inputs
// always produce identical output.
func Rank(messages []models.Message, searchText, activeTab string) []models.Message {
	q := strings.ToLower(searchText)
	if activeTab == "" {
		activeTab = TabAll
	}

	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if !matchesSearch(m, q) {
			continue
		}
		if activeTab != TabAll && string(m.Status) != activeTab {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		return recencyBucket(out[i].Timestamp) < recencyBucket(out[j].Timestamp)
	})

	return out
}

func matchesSearch(m models.Message, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Tenant.Name), q) ||
		strings.Contains(strings.ToLower(m.Property), q) ||
		strings.Contains(strings.ToLower(m.Category), q) ||
		strings.Contains(strings.ToLower(m.Body), q)
}

// recencyBucket maps a display timestamp onto a coarse ordinal. The
// timestamps are human-readable strings ("10 minutes ago", "Just now"),
// so only the unit matters for ordering.
func recencyBucket(timestamp string) int {
	ts := strings.ToLower(timestamp)
	switch {
	case strings.Contains(ts, "just now"):
		return 0
	case strings.Contains(ts, "minute"):
		return 1
	case strings.Contains(ts, "hour"):
		return 2
	case strings.Contains(ts, "day"):
		return 3
	default:
		return 4
	}
}

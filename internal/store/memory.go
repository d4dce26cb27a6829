package store

import (
	"sync"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// MemoryStore is the in-memory MessageStore backing the worklist. Seeded
// messages and feed-derived messages are kept in separate slices so a feed
// re-merge never disturbs local state.
type MemoryStore struct {
	mu   sync.RWMutex
	seed []models.Message
	feed []models.Message
}

// NewMemoryStore creates a MemoryStore holding the given seed messages.
func NewMemoryStore(seed []models.Message) *MemoryStore {
	s := &MemoryStore{seed: make([]models.Message, len(seed))}
	copy(s.seed, seed)
	return s
}

// List returns the merged, de-duplicated worklist in insertion order.
func (s *MemoryStore) List() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mergedLocked()
}

func (s *MemoryStore) mergedLocked() []models.Message {
	merged := make([]models.Message, 0, len(s.seed)+len(s.feed))
	seen := make(map[string]bool, len(s.seed)+len(s.feed))
	for _, m := range s.seed {
		if !seen[m.ID] {
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}
	for _, m := range s.feed {
		if !seen[m.ID] {
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}
	return merged
}

// SetStatus replaces the status of the message with the given id and
// returns the updated list. Unknown ids are a no-op.
func (s *MemoryStore) SetStatus(id string, status models.Status) []models.Message {
	if !status.Valid() {
		status = models.ClampStatus(string(status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.seed {
		if s.seed[i].ID == id {
			s.seed[i].Status = status
		}
	}
	for i := range s.feed {
		if s.feed[i].ID == id {
			s.feed[i].Status = status
		}
	}
	return s.mergedLocked()
}

// Select returns the message with the given id, or ErrNotSelected.
func (s *MemoryStore) Select(id string) (models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.mergedLocked() {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Message{}, ErrNotSelected
}

// MergeFeed replaces the feed-derived portion of the worklist.
func (s *MemoryStore) MergeFeed(msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep statuses already applied to feed messages that survive the
	// re-merge, so a dispatched feed message stays done.
	prev := make(map[string]models.Status, len(s.feed))
	for _, m := range s.feed {
		prev[m.ID] = m.Status
	}

	seedIDs := make(map[string]bool, len(s.seed))
	for _, m := range s.seed {
		seedIDs[m.ID] = true
	}

	feed := make([]models.Message, 0, len(msgs))
	seen := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		if seedIDs[m.ID] || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		if st, ok := prev[m.ID]; ok {
			m.Status = st
		}
		feed = append(feed, m)
	}
	s.feed = feed
}

package store

import (
	"errors"
	"testing"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

func feedMsg(id string) models.Message {
	return models.Message{
		ID:        id,
		Tenant:    models.Tenant{Name: "Sarah Smith", Initials: "AK"},
		Property:  "System Message",
		Category:  "Maintenance",
		Body:      "feed message " + id,
		Timestamp: "Just now",
		Status:    models.StatusNew,
		Priority:  models.PriorityLow,
	}
}

func TestSeedIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range SeedMessages() {
		if seen[m.ID] {
			t.Fatalf("duplicate seed id %q", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestListMergesFeedAfterSeed(t *testing.T) {
	s := NewMemoryStore(SeedMessages())
	s.MergeFeed([]models.Message{feedMsg("feed-1"), feedMsg("feed-2")})

	list := s.List()
	if len(list) != 8 {
		t.Fatalf("expected 8 messages, got %d", len(list))
	}

	// Seeds keep insertion order, feed items follow.
	if list[0].ID != "1" || list[5].ID != "6" {
		t.Fatalf("seed order disturbed: first=%s sixth=%s", list[0].ID, list[5].ID)
	}
	if list[6].ID != "feed-1" || list[7].ID != "feed-2" {
		t.Fatalf("feed order wrong: %s, %s", list[6].ID, list[7].ID)
	}
}

func TestMergeFeedDropsCollidingIDs(t *testing.T) {
	s := NewMemoryStore(SeedMessages())

	// "1" collides with a seed; the seed wins.
	collision := feedMsg("1")
	collision.Body = "impostor"
	s.MergeFeed([]models.Message{collision, feedMsg("feed-1"), feedMsg("feed-1")})

	list := s.List()
	if len(list) != 7 {
		t.Fatalf("expected 7 messages, got %d", len(list))
	}
	got, err := s.Select("1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Body == "impostor" {
		t.Fatal("feed message displaced a seed")
	}
}

func TestSetStatus(t *testing.T) {
	s := NewMemoryStore(SeedMessages())

	list := s.SetStatus("1", models.StatusDone)
	for _, m := range list {
		if m.ID == "1" && m.Status != models.StatusDone {
			t.Fatalf("expected done, got %q", m.Status)
		}
	}

	got, err := s.Select("1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusDone {
		t.Fatalf("status not persisted: %q", got.Status)
	}
}

func TestSetStatusUnknownIDIsNoop(t *testing.T) {
	s := NewMemoryStore(SeedMessages())

	before := s.List()
	after := s.SetStatus("no-such-id", models.StatusDone)
	if len(before) != len(after) {
		t.Fatalf("list changed: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Status != after[i].Status {
			t.Fatalf("status of %s changed", before[i].ID)
		}
	}
}

func TestSelectMissing(t *testing.T) {
	s := NewMemoryStore(SeedMessages())
	_, err := s.Select("missing")
	if !errors.Is(err, ErrNotSelected) {
		t.Fatalf("expected ErrNotSelected, got %v", err)
	}
}

func TestMergeFeedKeepsDispatchedStatus(t *testing.T) {
	s := NewMemoryStore(SeedMessages())
	s.MergeFeed([]models.Message{feedMsg("feed-1")})
	s.SetStatus("feed-1", models.StatusDone)

	// A re-merge delivers the same record as new again; the applied
	// status must survive.
	s.MergeFeed([]models.Message{feedMsg("feed-1")})

	got, err := s.Select("feed-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusDone {
		t.Fatalf("dispatched feed message reverted to %q", got.Status)
	}
}

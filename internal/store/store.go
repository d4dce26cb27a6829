package store

import (
	"context"
	"errors"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// ErrNotSelected is returned by Select when no message matches the id.
var ErrNotSelected = errors.New("no message selected")

// MessageStore holds the merged triage worklist: locally-seeded messages
// plus messages merged in from the categorizer feed.
type MessageStore interface {
	// List returns the merged, de-duplicated worklist in insertion order.
	List() []models.Message

	// SetStatus replaces the status of the message with the given id and
	// returns the updated list. Unknown ids are a no-op, not an error.
	SetStatus(id string, status models.Status) []models.Message

	// Select returns the message with the given id, or ErrNotSelected.
	// Selection is independent of any filtering applied to the worklist.
	Select(id string) (models.Message, error)

	// MergeFeed replaces the feed-derived portion of the worklist. Seeded
	// messages are never displaced; feed messages colliding with an
	// existing id are dropped.
	MergeFeed(msgs []models.Message)
}

// ReadModel is the persisted store the categorizer and worker-search
// pipelines write into. The triage service only ever reads from it.
// Both PostgresStore and SQLiteStore implement this interface.
type ReadModel interface {
	Close()
	Ping(ctx context.Context) error

	// CategorizerResults returns categorizer records ordered by creation
	// time descending.
	CategorizerResults(ctx context.Context) ([]models.CategorizerRecord, error)

	// TopWorkers returns up to limit worker candidates ordered by creation
	// time descending (highest-rated first per the upstream ordering).
	TopWorkers(ctx context.Context, limit int) ([]models.WorkerOption, error)
}

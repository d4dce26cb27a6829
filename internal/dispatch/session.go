package dispatch

import (
	"context"
	"math/rand"
	"time"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

// Phase is the state of a dispatch session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseSearching Phase = "searching"
	PhaseChoosing  Phase = "choosing"
	PhaseDrafting  Phase = "drafting"
	PhaseResolved  Phase = "resolved"
	PhaseDismissed Phase = "dismissed"
)

// Terminal reports whether the phase ends a session.
func (p Phase) Terminal() bool {
	return p == PhaseResolved || p == PhaseDismissed
}

// Session is a caller-facing snapshot of one in-progress dispatch: the
// candidate workers, the chosen one, the generated draft, and the phase.
// It is ephemeral; it exists only while one selected message is being
// handled.
type Session struct {
	ID         string                `json:"id"`
	MessageID  string                `json:"message_id"`
	Phase      Phase                 `json:"phase"`
	Options    []models.WorkerOption `json:"options"`
	Worker     *models.WorkerOption  `json:"worker,omitempty"`
	Draft      string                `json:"draft,omitempty"`
	DraftError string                `json:"draft_error,omitempty"`
	Drafting   bool                  `json:"drafting,omitempty"` // a draft request is in flight
}

// session is the orchestrator-owned mutable state behind Session snapshots.
type session struct {
	id       string
	msg      models.Message
	phase    Phase
	options  []models.WorkerOption
	worker   *models.WorkerOption
	draft    string
	draftErr string
	busy     bool
	draftSeq uint64 // stale-response guard for regenerate
}

func (s *session) snapshot() Session {
	snap := Session{
		ID:         s.id,
		MessageID:  s.msg.ID,
		Phase:      s.phase,
		Options:    append([]models.WorkerOption(nil), s.options...),
		Draft:      s.draft,
		DraftError: s.draftErr,
		Drafting:   s.busy,
	}
	if s.worker != nil {
		w := *s.worker
		snap.Worker = &w
	}
	return snap
}

// Delayer models the latency of the worker-location lookup. The production
// implementation waits a randomized interval; tests inject an immediate one.
type Delayer interface {
	Wait(ctx context.Context) error
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(ctx context.Context) error

// Wait implements Delayer.
func (f DelayFunc) Wait(ctx context.Context) error { return f(ctx) }

// RandomDelayer waits a uniformly random duration within [Min, Max],
// simulating the external location-search latency.
type RandomDelayer struct {
	Min time.Duration
	Max time.Duration
}

// Wait implements Delayer.
func (d RandomDelayer) Wait(ctx context.Context) error {
	min, max := d.Min, d.Max
	if min <= 0 {
		min = 2 * time.Second
	}
	if max < min {
		max = min
	}

	wait := min
	if max > min {
		wait += time.Duration(rand.Int63n(int64(max - min + 1)))
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

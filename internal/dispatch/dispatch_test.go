package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/draft"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
)

type fakeFinder struct {
	workers []models.WorkerOption
	err     error
	calls   int
}

func (f *fakeFinder) TopWorkers(ctx context.Context, limit int) ([]models.WorkerOption, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.workers) > limit {
		return f.workers[:limit], nil
	}
	return f.workers, nil
}

type fakeDrafter struct {
	text  string
	err   error
	calls int
}

func (f *fakeDrafter) RequestDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeDrafter) PreselectionDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error) {
	f.calls++
	return f.text, f.err
}

func immediate() Option {
	return WithDelayer(DelayFunc(func(ctx context.Context) error { return nil }))
}

func synchronous() Option {
	return WithSpawn(func(f func()) { f() })
}

var defaultWorkers = []models.WorkerOption{
	{Name: "John Smith", Type: "Plumber", Rating: "4.8"},
	{Name: "Ana Petrov", Type: "Electrician", Rating: "4.6"},
	{Name: "Lee Wong", Type: "HVAC Technician", Rating: "4.5"},
}

func newTestOrchestrator(t *testing.T, finder *fakeFinder, drafter *fakeDrafter) (*Orchestrator, *store.MemoryStore) {
	t.Helper()
	msgs := store.NewMemoryStore(store.SeedMessages())
	o := New(msgs, finder, drafter, zerolog.Nop(), immediate(), synchronous())
	return o, msgs
}

func TestStartRefusesNonMaintenance(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, &fakeDrafter{})

	// Seed "3" is a Rent message.
	_, err := o.Start("3")
	if !errors.Is(err, ErrNotMaintenance) {
		t.Fatalf("expected ErrNotMaintenance, got %v", err)
	}
	if o.Active() {
		t.Fatal("machine must stay idle for non-maintenance messages")
	}
}

func TestStartUnknownMessage(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{}, &fakeDrafter{})

	_, err := o.Start("missing")
	if !errors.Is(err, store.ErrNotSelected) {
		t.Fatalf("expected ErrNotSelected, got %v", err)
	}
}

func TestStartReachesChoosing(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, &fakeDrafter{})

	s, err := o.Start("1")
	if err != nil {
		t.Fatal(err)
	}

	// Synchronous spawn: the search already completed.
	s, err = o.Session(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseChoosing {
		t.Fatalf("expected choosing, got %q", s.Phase)
	}
	if len(s.Options) == 0 || len(s.Options) > 3 {
		t.Fatalf("expected 1-3 options, got %d", len(s.Options))
	}
	for _, opt := range s.Options {
		if opt.Name == "" || opt.Type == "" || opt.Rating == "" {
			t.Fatalf("option missing fields: %+v", opt)
		}
	}
}

func TestLookupFailureYieldsEmptyChoosing(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{err: errors.New("search exploded")}, &fakeDrafter{})

	s, err := o.Start("1")
	if err != nil {
		t.Fatal(err)
	}

	s, err = o.Session(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseChoosing {
		t.Fatalf("lookup failure must still reach choosing, got %q", s.Phase)
	}
	if len(s.Options) != 0 {
		t.Fatalf("expected empty option list, got %d", len(s.Options))
	}
}

func TestSingleSessionInFlight(t *testing.T) {
	finder := &fakeFinder{workers: defaultWorkers}
	o, _ := newTestOrchestrator(t, finder, &fakeDrafter{})

	s, err := o.Start("1")
	if err != nil {
		t.Fatal(err)
	}

	// Seeds "4" and "6" are also maintenance messages.
	if _, err := o.Start("6"); !errors.Is(err, ErrSessionInFlight) {
		t.Fatalf("expected ErrSessionInFlight, got %v", err)
	}

	// After the session resolves, a new one is allowed.
	if _, err := o.DismissAll(s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := o.Start("6"); err != nil {
		t.Fatalf("expected new session after dismissal, got %v", err)
	}
}

func TestPickWorkerThroughSend(t *testing.T) {
	drafter := &fakeDrafter{text: "Dear John Smith, ..."}
	o, msgs := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, drafter)

	s, err := o.Start("1")
	if err != nil {
		t.Fatal(err)
	}

	s, err = o.PickWorker(s.ID, "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseDrafting {
		t.Fatalf("expected drafting, got %q", s.Phase)
	}
	if s.Worker == nil || s.Worker.Name != "John Smith" || s.Worker.Rating != "4.8" {
		t.Fatalf("worker not recorded: %+v", s.Worker)
	}

	// Draft arrived (synchronous spawn), but the message is not done yet.
	s, err = o.Session(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Draft != "Dear John Smith, ..." {
		t.Fatalf("draft not delivered: %q", s.Draft)
	}
	if m, _ := msgs.Select("1"); m.Status == models.StatusDone {
		t.Fatal("message must not be done before send")
	}

	s, err = o.Send(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseResolved {
		t.Fatalf("expected resolved, got %q", s.Phase)
	}
	if m, _ := msgs.Select("1"); m.Status != models.StatusDone {
		t.Fatalf("message status after send: %q", m.Status)
	}

	// The session is torn down.
	if _, err := o.Session(s.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after send, got %v", err)
	}
}

func TestPickUnknownWorker(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, &fakeDrafter{})

	s, _ := o.Start("1")
	if _, err := o.PickWorker(s.ID, "Nobody"); !errors.Is(err, ErrUnknownWorker) {
		t.Fatalf("expected ErrUnknownWorker, got %v", err)
	}
}

func TestDraftFailureStaysDraftingAndRegenerates(t *testing.T) {
	drafter := &fakeDrafter{err: draft.ErrNoDraft}
	o, msgs := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, drafter)

	s, _ := o.Start("1")
	s, err := o.PickWorker(s.ID, "John Smith")
	if err != nil {
		t.Fatal(err)
	}

	s, _ = o.Session(s.ID)
	if s.Phase != PhaseDrafting {
		t.Fatalf("failure must not leave drafting, got %q", s.Phase)
	}
	if s.Draft != "" || s.DraftError == "" {
		t.Fatalf("expected empty draft with error, got draft=%q err=%q", s.Draft, s.DraftError)
	}
	if m, _ := msgs.Select("1"); m.Status == models.StatusDone {
		t.Fatal("failure must never silently resolve the message")
	}

	// The service recovers; regenerate replaces the draft.
	drafter.err = nil
	drafter.text = "recovered draft"
	s, err = o.Regenerate(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	s, _ = o.Session(s.ID)
	if s.Draft != "recovered draft" || s.DraftError != "" {
		t.Fatalf("regenerate did not recover: draft=%q err=%q", s.Draft, s.DraftError)
	}
}

func TestDismissAllSkipsDrafting(t *testing.T) {
	drafter := &fakeDrafter{text: "should never be requested"}
	o, msgs := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, drafter)

	s, _ := o.Start("1")
	s, err := o.DismissAll(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseDismissed {
		t.Fatalf("expected dismissed, got %q", s.Phase)
	}
	if m, _ := msgs.Select("1"); m.Status != models.StatusDone {
		t.Fatalf("dismissal must still mark done, got %q", m.Status)
	}
	if drafter.calls != 0 {
		t.Fatalf("draft adapter called %d times during dismissal", drafter.calls)
	}
}

func TestTransitionGuards(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, &fakeDrafter{text: "d"})

	s, _ := o.Start("1")

	// Send is only reachable from drafting.
	if _, err := o.Send(s.ID); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("send from choosing: expected ErrWrongPhase, got %v", err)
	}
	// Regenerate likewise.
	if _, err := o.Regenerate(s.ID); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("regenerate from choosing: expected ErrWrongPhase, got %v", err)
	}

	s, _ = o.PickWorker(s.ID, "John Smith")

	// DismissAll is only reachable from choosing.
	if _, err := o.DismissAll(s.ID); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("dismiss from drafting: expected ErrWrongPhase, got %v", err)
	}
}

func TestStaleDraftResponseDiscarded(t *testing.T) {
	// Capture spawned work so the two draft requests can complete out of
	// order, as a slow network would deliver them.
	var pending []func()
	capture := WithSpawn(func(f func()) { pending = append(pending, f) })

	seq := 0
	drafter := &sequencedDrafter{next: func() string {
		seq++
		return fmt.Sprintf("draft #%d", seq)
	}}

	msgs := store.NewMemoryStore(store.SeedMessages())
	o := New(msgs, &fakeFinder{workers: defaultWorkers}, drafter, zerolog.Nop(), immediate(), capture)

	s, err := o.Start("1")
	if err != nil {
		t.Fatal(err)
	}
	runAll(&pending) // search completes

	s, err = o.PickWorker(s.ID, "John Smith")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Regenerate(s.ID); err != nil {
		t.Fatal(err)
	}

	// Two requests pending. Complete the regenerate first, then the
	// original; the original is stale and must be discarded.
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending draft requests, got %d", len(pending))
	}
	pending[1]()
	regenerated, _ := o.Session(s.ID)
	pending[0]()
	final, _ := o.Session(s.ID)

	if final.Draft != regenerated.Draft {
		t.Fatalf("stale response overwrote the draft: %q -> %q", regenerated.Draft, final.Draft)
	}
}

func TestLateDraftAfterDismissDiscarded(t *testing.T) {
	var pending []func()
	capture := WithSpawn(func(f func()) { pending = append(pending, f) })

	msgs := store.NewMemoryStore(store.SeedMessages())
	drafter := &fakeDrafter{text: "late"}
	o := New(msgs, &fakeFinder{workers: defaultWorkers}, drafter, zerolog.Nop(), immediate(), capture)

	s, _ := o.Start("1")
	runAll(&pending)

	s, _ = o.PickWorker(s.ID, "John Smith")

	// The session finishes while the draft request is still in flight;
	// the response arriving afterwards must be discarded by the stale
	// guard, not revive or corrupt anything.
	if _, err := o.Send(s.ID); err != nil {
		t.Fatal(err)
	}
	runAll(&pending)

	if o.Active() {
		t.Fatal("late draft response revived a finished session")
	}
	if _, err := o.Session(s.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestPreselectDraft(t *testing.T) {
	drafter := &fakeDrafter{text: "pre-drafted"}
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, drafter)

	s, _ := o.Start("1")

	w, err := o.PreselectDraft(context.Background(), s.ID, "Ana Petrov")
	if err != nil {
		t.Fatal(err)
	}
	if w.EmailDraft != "pre-drafted" {
		t.Fatalf("draft not attached: %+v", w)
	}

	// The session stays in choosing and the option carries the draft.
	s, _ = o.Session(s.ID)
	if s.Phase != PhaseChoosing {
		t.Fatalf("preselect must not transition, got %q", s.Phase)
	}
	if s.Options[1].EmailDraft != "pre-drafted" {
		t.Fatalf("option not updated: %+v", s.Options[1])
	}
}

func TestPreselectDraftFallsBackWithoutDraft(t *testing.T) {
	drafter := &fakeDrafter{err: draft.ErrNoDraft}
	o, _ := newTestOrchestrator(t, &fakeFinder{workers: defaultWorkers}, drafter)

	s, _ := o.Start("1")

	w, err := o.PreselectDraft(context.Background(), s.ID, "Ana Petrov")
	if err != nil {
		t.Fatalf("missing draft must fall back to plain selection, got %v", err)
	}
	if w.Name != "Ana Petrov" || w.EmailDraft != "" {
		t.Fatalf("unexpected worker: %+v", w)
	}
}

type sequencedDrafter struct {
	next func() string
}

func (d *sequencedDrafter) RequestDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error) {
	return d.next(), nil
}

func (d *sequencedDrafter) PreselectionDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error) {
	return d.next(), nil
}

func runAll(pending *[]func()) {
	for len(*pending) > 0 {
		f := (*pending)[0]
		*pending = (*pending)[1:]
		f()
	}
}

// Package dispatch drives the maintenance-dispatch workflow for one
// selected message: locate worker candidates, let the operator choose,
// draft an email to the chosen worker, and mark the message done.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/draft"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
)

const (
	workerLimit   = 3
	lookupTimeout = 60 * time.Second
	draftTimeout  = 60 * time.Second
)

var (
	// ErrNotMaintenance is returned when dispatch is started on a message
	// whose category is not maintenance; the machine stays idle.
	ErrNotMaintenance = errors.New("message is not a maintenance issue")

	// ErrSessionInFlight is returned when a dispatch session is already
	// active. At most one session exists system-wide.
	ErrSessionInFlight = errors.New("a dispatch session is already in flight")

	// ErrNoSession is returned when no session matches the given id.
	ErrNoSession = errors.New("no such dispatch session")

	// ErrWrongPhase is returned for a transition the current phase does
	// not allow.
	ErrWrongPhase = errors.New("transition not allowed in current phase")

	// ErrUnknownWorker is returned when the picked worker is not among
	// the session's options.
	ErrUnknownWorker = errors.New("worker is not among the session options")
)

// WorkerFinder locates maintenance-worker candidates for an issue.
type WorkerFinder interface {
	TopWorkers(ctx context.Context, limit int) ([]models.WorkerOption, error)
}

// Drafter generates emails for a chosen worker and issue.
type Drafter interface {
	RequestDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error)
	PreselectionDraft(ctx context.Context, worker models.WorkerOption, issue draft.IssueDetails) (string, error)
}

// Orchestrator owns the single active dispatch session and its state
// machine. All methods are safe for concurrent use.
type Orchestrator struct {
	store   store.MessageStore
	finder  WorkerFinder
	drafter Drafter
	delay   Delayer
	spawn   func(func())
	logger  zerolog.Logger

	mu      sync.Mutex
	current *session
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDelayer replaces the location-search delay strategy.
func WithDelayer(d Delayer) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// WithSpawn replaces the goroutine launcher. Tests pass a synchronous
// runner to make the async transitions deterministic.
func WithSpawn(spawn func(func())) Option {
	return func(o *Orchestrator) { o.spawn = spawn }
}

// New creates an Orchestrator.
func New(msgStore store.MessageStore, finder WorkerFinder, drafter Drafter, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   msgStore,
		finder:  finder,
		drafter: drafter,
		delay:   RandomDelayer{Min: 2 * time.Second, Max: 4 * time.Second},
		spawn:   func(f func()) { go f() },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start begins a dispatch session for the message with the given id. Only
// maintenance messages are dispatchable; anything else leaves the machine
// idle. The worker lookup runs in the background; callers observe the
// session move from searching to choosing.
func (o *Orchestrator) Start(messageID string) (Session, error) {
	msg, err := o.store.Select(messageID)
	if err != nil {
		return Session{}, err
	}
	if !msg.IsMaintenance() {
		return Session{}, ErrNotMaintenance
	}

	o.mu.Lock()
	if o.current != nil && !o.current.phase.Terminal() {
		o.mu.Unlock()
		return Session{}, ErrSessionInFlight
	}

	s := &session{
		id:    ulid.Make().String(),
		msg:   msg,
		phase: PhaseSearching,
	}
	o.current = s
	snap := s.snapshot()
	o.mu.Unlock()

	o.logger.Info().
		Str("session_id", snap.ID).
		Str("message_id", msg.ID).
		Msg("dispatch session started")

	o.spawn(func() { o.runSearch(snap.ID) })

	return snap, nil
}

// runSearch simulates the location-search latency, then looks up worker
// candidates. Lookup failure still reaches choosing with an empty option
// list so the empty state is representable.
func (o *Orchestrator) runSearch(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if err := o.delay.Wait(ctx); err != nil {
		o.locationsFound(sessionID, nil)
		return
	}

	options, err := o.finder.TopWorkers(ctx, workerLimit)
	if err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("worker lookup failed")
		options = nil
	}
	o.locationsFound(sessionID, options)
}

// locationsFound delivers lookup results into the session. Results for a
// session that has since been torn down are discarded.
func (o *Orchestrator) locationsFound(sessionID string, options []models.WorkerOption) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.current
	if s == nil || s.id != sessionID || s.phase != PhaseSearching {
		return
	}
	if len(options) > workerLimit {
		options = options[:workerLimit]
	}
	s.options = options
	s.phase = PhaseChoosing
}

// Session returns a snapshot of the session with the given id.
func (o *Orchestrator) Session(sessionID string) (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.current
	if s == nil || s.id != sessionID {
		return Session{}, ErrNoSession
	}
	return s.snapshot(), nil
}

// PickWorker chooses a worker and moves the session to drafting. The email
// draft is requested in the background; a failure leaves the session in
// drafting with a recoverable error so the operator can regenerate.
func (o *Orchestrator) PickWorker(sessionID, workerName string) (Session, error) {
	o.mu.Lock()

	s := o.current
	if s == nil || s.id != sessionID {
		o.mu.Unlock()
		return Session{}, ErrNoSession
	}
	if s.phase != PhaseChoosing {
		o.mu.Unlock()
		return Session{}, ErrWrongPhase
	}

	var picked *models.WorkerOption
	for i := range s.options {
		if s.options[i].Name == workerName {
			picked = &s.options[i]
			break
		}
	}
	if picked == nil {
		o.mu.Unlock()
		return Session{}, ErrUnknownWorker
	}

	w := *picked
	s.worker = &w
	s.phase = PhaseDrafting
	job := o.prepareDraft(s)
	snap := s.snapshot()
	o.mu.Unlock()

	o.spawn(job)
	return snap, nil
}

// Regenerate re-issues the identical draft request, replacing the current
// draft when the response arrives. The prior draft is discarded, not
// versioned.
func (o *Orchestrator) Regenerate(sessionID string) (Session, error) {
	o.mu.Lock()

	s := o.current
	if s == nil || s.id != sessionID {
		o.mu.Unlock()
		return Session{}, ErrNoSession
	}
	if s.phase != PhaseDrafting {
		o.mu.Unlock()
		return Session{}, ErrWrongPhase
	}

	job := o.prepareDraft(s)
	snap := s.snapshot()
	o.mu.Unlock()

	o.spawn(job)
	return snap, nil
}

// prepareDraft bumps the request sequence and returns the closure that
// performs the draft request. Must be called with o.mu held; the caller
// spawns the closure after releasing the lock. The sequence number guards
// against a slower earlier request overwriting a later one.
func (o *Orchestrator) prepareDraft(s *session) func() {
	s.draftSeq++
	s.busy = true

	sid, seq := s.id, s.draftSeq
	worker := *s.worker
	issue := draft.IssueDetails{
		Description: s.msg.Body,
		TenantName:  s.msg.Tenant.Name,
		Location:    s.msg.Property,
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), draftTimeout)
		defer cancel()

		text, err := o.drafter.RequestDraft(ctx, worker, issue)
		o.draftReady(sid, seq, text, err)
	}
}

// draftReady delivers a draft response into the session. Stale responses
// (superseded by regenerate, or for a torn-down session) are discarded.
func (o *Orchestrator) draftReady(sessionID string, seq uint64, text string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.current
	if s == nil || s.id != sessionID || s.draftSeq != seq {
		o.logger.Debug().Str("session_id", sessionID).Msg("stale draft response discarded")
		return
	}
	if s.phase != PhaseDrafting {
		return
	}

	s.busy = false
	if err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("draft request failed")
		s.draft = ""
		s.draftErr = draftErrMessage(err)
		return
	}
	s.draft = text
	s.draftErr = ""
}

func draftErrMessage(err error) string {
	if errors.Is(err, draft.ErrNoDraft) {
		return "no draft available"
	}
	return err.Error()
}

// PreselectDraft requests a draft for one candidate without leaving the
// choosing phase, attaching it to the option when the service returns one.
// A missing draft falls back to plain selection.
func (o *Orchestrator) PreselectDraft(ctx context.Context, sessionID, workerName string) (models.WorkerOption, error) {
	o.mu.Lock()
	s := o.current
	if s == nil || s.id != sessionID {
		o.mu.Unlock()
		return models.WorkerOption{}, ErrNoSession
	}
	if s.phase != PhaseChoosing {
		o.mu.Unlock()
		return models.WorkerOption{}, ErrWrongPhase
	}

	idx := -1
	for i := range s.options {
		if s.options[i].Name == workerName {
			idx = i
			break
		}
	}
	if idx < 0 {
		o.mu.Unlock()
		return models.WorkerOption{}, ErrUnknownWorker
	}

	worker := s.options[idx]
	issue := draft.IssueDetails{
		Description: s.msg.Body,
		TenantName:  s.msg.Tenant.Name,
		Location:    s.msg.Property,
		Urgency:     string(s.msg.Priority),
	}
	o.mu.Unlock()

	text, err := o.drafter.PreselectionDraft(ctx, worker, issue)
	if err != nil {
		if errors.Is(err, draft.ErrNoDraft) {
			return worker, nil
		}
		return models.WorkerOption{}, err
	}

	o.mu.Lock()
	if o.current == s && s.phase == PhaseChoosing && idx < len(s.options) {
		s.options[idx].EmailDraft = text
	}
	o.mu.Unlock()

	worker.EmailDraft = text
	return worker, nil
}

// Send finalizes the session: the message is marked done and the session
// is torn down. Only reachable from drafting.
func (o *Orchestrator) Send(sessionID string) (Session, error) {
	return o.finish(sessionID, PhaseDrafting, PhaseResolved)
}

// DismissAll ends the session without drafting an email, used when no
// worker is acceptable. The message is still marked done. Closing the
// dialog while choosing is equivalent; any draft response that arrives
// later is discarded by the stale guard.
func (o *Orchestrator) DismissAll(sessionID string) (Session, error) {
	return o.finish(sessionID, PhaseChoosing, PhaseDismissed)
}

func (o *Orchestrator) finish(sessionID string, from, to Phase) (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.current
	if s == nil || s.id != sessionID {
		return Session{}, ErrNoSession
	}
	if s.phase != from {
		return Session{}, ErrWrongPhase
	}

	s.phase = to
	s.busy = false
	o.store.SetStatus(s.msg.ID, models.StatusDone)

	o.logger.Info().
		Str("session_id", s.id).
		Str("message_id", s.msg.ID).
		Str("outcome", string(to)).
		Msg("dispatch session finished")

	snap := s.snapshot()
	o.current = nil
	return snap, nil
}

// Active reports whether a non-terminal session is in flight.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil && !o.current.phase.Terminal()
}

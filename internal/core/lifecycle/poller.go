// Package lifecycle tracks an asynchronous review job until it reaches a
// terminal state and hydrates the session store with its results.
//
// The Poller never sleeps on its own behalf except in Run. Interactive
// callers drive it with Fetch and Apply from their own event loop and use
// Outcome.Delay to schedule the next round. Every round is bound to a
// Ticket; results carrying a retired ticket are discarded.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/selection"
	"github.com/zerebom/revural/internal/core/session"
)

// DefaultInterval is the pause between status fetches while processing.
const DefaultInterval = 1500 * time.Millisecond

var (
	// ErrStale is returned for work bound to a ticket that is no longer active.
	ErrStale = errors.New("stale review ticket")
	// ErrInFlight is returned when a fetch is requested while another one has
	// not resolved yet.
	ErrInFlight = errors.New("status fetch already in flight")
	// ErrTerminal is returned when fetching after the review reached a
	// terminal state.
	ErrTerminal = errors.New("review already finished")
	// ErrReviewFailed reports a review whose backend job failed.
	ErrReviewFailed = errors.New("review failed")
	// ErrReviewNotFound reports a review id unknown to the backend.
	ErrReviewNotFound = errors.New("review does not exist")
)

// StatusFetcher loads the current status of a review.
type StatusFetcher interface {
	GetReview(ctx context.Context, reviewID string) (review.StatusPayload, error)
}

// Ticket identifies one polling task. The zero value is never active.
type Ticket struct {
	ReviewID string
	seq      uint64
}

func (t Ticket) IsZero() bool {
	return t.seq == 0
}

// Result is the raw output of one fetch.
type Result struct {
	Ticket  Ticket
	Payload review.StatusPayload
	Err     error
}

// Progress is presentation-only metadata from a processing payload.
type Progress struct {
	Value           *float64
	Phase           string
	ExpectedAgents  []string
	CompletedAgents []string
}

// Outcome describes what applying a Result did.
type Outcome struct {
	Ticket Ticket
	// Stale is set when the result belonged to a retired ticket and was
	// dropped without side effects.
	Stale bool
	// State is the machine state after applying.
	State review.Status
	// FetchErr is a transport failure. It never changes State.
	FetchErr error
	// Hydrated is set on the single round that copied issues into the store.
	Hydrated bool
	// FocusAssigned is set when the first issue was focused by default.
	FocusAssigned bool
	// Continue asks the caller to fetch again after Delay.
	Continue bool
	Delay    time.Duration
	Progress Progress
}

// Terminal reports whether the ticket reached a final state.
func (o Outcome) Terminal() bool {
	return !o.Stale && o.State.IsTerminal()
}

// Err maps the outcome to the error a caller should surface, if any.
func (o Outcome) Err() error {
	switch {
	case o.Stale:
		return ErrStale
	case o.FetchErr != nil:
		return o.FetchErr
	case o.State == review.StatusFailed:
		return ErrReviewFailed
	case o.State == review.StatusNotFound:
		return ErrReviewNotFound
	default:
		return nil
	}
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger used for round tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// WithSelection routes the default focus assignment through sync.
func WithSelection(s *selection.Synchronizer) Option {
	return func(p *Poller) {
		p.sync = s
	}
}

// Poller is safe for concurrent use, though fetches for one ticket are
// strictly sequential.
type Poller struct {
	fetcher  StatusFetcher
	store    *session.Store
	sync     *selection.Synchronizer
	interval time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	seq      uint64
	active   Ticket
	machine  *Machine
	inFlight bool
	hydrated bool
}

func New(fetcher StatusFetcher, store *session.Store, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		store:    store,
		interval: DefaultInterval,
		log:      logging.Component("lifecycle"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sync == nil {
		p.sync = selection.New(store)
	}
	return p
}

// Interval returns the configured pause between fetches.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Begin retires any previous ticket and starts tracking reviewID. When the
// store holds a different review it is reset first, then its review id is
// updated to match.
func (p *Poller) Begin(reviewID string) (Ticket, error) {
	machine, err := NewMachine(reviewID)
	if err != nil {
		return Ticket{}, err
	}

	p.mu.Lock()
	p.seq++
	p.active = Ticket{ReviewID: reviewID, seq: p.seq}
	p.machine = machine
	p.inFlight = false
	p.hydrated = false
	t := p.active
	p.mu.Unlock()

	if prev := p.store.ReviewID(); prev != "" && prev != reviewID {
		p.store.Reset()
	}
	p.store.SetReviewID(reviewID)
	p.log.Debug().Str("review_id", reviewID).Uint64("seq", t.seq).Msg("begin polling")
	return t, nil
}

// Cancel retires the active ticket. In-flight results will be discarded.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active.IsZero() {
		p.log.Debug().Str("review_id", p.active.ReviewID).Uint64("seq", p.active.seq).Msg("cancel polling")
	}
	p.active = Ticket{}
	p.machine = nil
	p.inFlight = false
}

// Active returns the current ticket, or the zero Ticket.
func (p *Poller) Active() Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// IsActive reports whether t is the current ticket.
func (p *Poller) IsActive(t Ticket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isActive(t)
}

// State returns the machine state of the active ticket, or "" when idle.
func (p *Poller) State() review.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.machine == nil {
		return ""
	}
	return p.machine.State()
}

// Fetch performs one status request for t. The returned error is a guard
// refusal (ErrStale, ErrInFlight, ErrTerminal) and means nothing was sent;
// transport failures are carried in Result.Err.
func (p *Poller) Fetch(ctx context.Context, t Ticket) (Result, error) {
	p.mu.Lock()
	switch {
	case !p.isActive(t):
		p.mu.Unlock()
		return Result{Ticket: t}, ErrStale
	case p.inFlight:
		p.mu.Unlock()
		return Result{Ticket: t}, ErrInFlight
	case p.machine.State().IsTerminal():
		p.mu.Unlock()
		return Result{Ticket: t}, ErrTerminal
	}
	p.inFlight = true
	p.mu.Unlock()

	ctx = logging.WithReviewID(ctx, t.ReviewID)
	payload, err := p.fetcher.GetReview(ctx, t.ReviewID)

	p.mu.Lock()
	if p.isActive(t) {
		p.inFlight = false
	}
	p.mu.Unlock()

	if err != nil {
		return Result{Ticket: t, Err: fmt.Errorf("fetch review status: %w", err)}, nil
	}
	return Result{Ticket: t, Payload: payload}, nil
}

// Apply advances the machine with res and updates the store. Stale results
// have no effect.
func (p *Poller) Apply(res Result) Outcome {
	p.mu.Lock()
	if !p.isActive(res.Ticket) {
		p.mu.Unlock()
		p.log.Debug().Str("review_id", res.Ticket.ReviewID).Uint64("seq", res.Ticket.seq).Msg("discard stale status")
		return Outcome{Ticket: res.Ticket, Stale: true}
	}

	out := Outcome{Ticket: res.Ticket, State: p.machine.State()}
	if res.Err != nil {
		p.mu.Unlock()
		out.FetchErr = res.Err
		p.log.Warn().Err(res.Err).Str("review_id", res.Ticket.ReviewID).Msg("status fetch failed")
		return out
	}

	payload := res.Payload
	if _, err := p.machine.Observe(payload.Status); err != nil {
		p.mu.Unlock()
		out.FetchErr = err
		p.log.Warn().Err(err).Str("review_id", res.Ticket.ReviewID).Msg("unexpected status")
		return out
	}
	out.State = p.machine.State()

	hydrate := out.State == review.StatusCompleted && !p.hydrated && len(payload.Issues) > 0
	if hydrate {
		p.hydrated = true
	}
	p.mu.Unlock()

	if payload.DocumentText != "" && p.store.DocumentText() == "" {
		p.store.SetDocumentText(payload.DocumentText)
	}

	switch out.State {
	case review.StatusProcessing:
		out.Continue = true
		out.Delay = p.interval
		out.Progress = Progress{
			Value:           payload.Progress,
			Phase:           payload.PhaseMessage,
			ExpectedAgents:  payload.ExpectedAgents,
			CompletedAgents: payload.CompletedAgents,
		}
	case review.StatusCompleted:
		if hydrate {
			p.store.SetIssues(payload.Issues)
			out.Hydrated = true
			if p.store.FocusedIssueID() == "" {
				p.sync.Select(selection.SourcePoller, payload.Issues[0].ID)
				out.FocusAssigned = true
			}
		}
	}

	p.log.Debug().
		Str("review_id", res.Ticket.ReviewID).
		Str("state", string(out.State)).
		Bool("hydrated", out.Hydrated).
		Msg("status applied")

	return out
}

// Run polls reviewID until a terminal state, a fetch error or ctx
// cancellation. observe, when non-nil, sees every outcome. A completed
// review returns nil; failed and not-found reviews return ErrReviewFailed
// and ErrReviewNotFound.
func (p *Poller) Run(ctx context.Context, reviewID string, observe func(Outcome)) error {
	t, err := p.Begin(reviewID)
	if err != nil {
		return err
	}
	defer p.Cancel()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		res, err := p.Fetch(ctx, t)
		if err != nil {
			return err
		}

		out := p.Apply(res)
		if observe != nil {
			observe(out)
		}
		if !out.Continue {
			return out.Err()
		}

		if timer == nil {
			timer = time.NewTimer(out.Delay)
		} else {
			timer.Reset(out.Delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) isActive(t Ticket) bool {
	return !t.IsZero() && t == p.active
}

// Package reviews implements the user-facing actions on review issues:
// asking questions, fetching and applying suggestions, and triage status
// changes with optimistic local updates.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/session"
)

var (
	ErrNoReview       = errors.New("no active review")
	ErrUnknownIssue   = errors.New("issue not found in review")
	ErrEmptyQuestion  = errors.New("question cannot be empty")
	ErrApplyRejected  = errors.New("backend rejected the suggestion")
	ErrStatusRejected = errors.New("backend rejected the status change")
)

// API is the subset of the backend client the service needs.
type API interface {
	Dialog(ctx context.Context, reviewID, issueID, question string) (string, error)
	Suggest(ctx context.Context, reviewID, issueID string) (review.Suggestion, error)
	ApplySuggestion(ctx context.Context, reviewID, issueID string) (review.ActionResult, error)
	UpdateIssueStatus(ctx context.Context, reviewID, issueID string, status review.IssueStatus) (review.ActionResult, error)
}

// Options tunes timeouts and retries.
type Options struct {
	DialogTimeout time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.DialogTimeout <= 0 {
		o.DialogTimeout = 60 * time.Second
	}
	if o.RetryAttempts < 1 {
		o.RetryAttempts = 1
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 250 * time.Millisecond
	}
	return o
}

// Service runs issue actions against the review held in a session store.
type Service struct {
	api   API
	store *session.Store
	opts  Options
	log   zerolog.Logger

	mu   sync.Mutex
	seqs map[string]uint64 // latest status change per review/issue
}

func NewService(api API, store *session.Store, opts Options) *Service {
	return &Service{
		api:   api,
		store: store,
		opts:  opts.withDefaults(),
		log:   logging.Component("reviews"),
		seqs:  map[string]uint64{},
	}
}

func (s *Service) target(ctx context.Context, issueID string) (context.Context, string, error) {
	reviewID := s.store.ReviewID()
	if reviewID == "" {
		return ctx, "", ErrNoReview
	}
	if _, ok := s.store.Issue(issueID); !ok {
		return ctx, "", fmt.Errorf("%w: %s", ErrUnknownIssue, issueID)
	}
	return logging.WithReviewID(ctx, reviewID), reviewID, nil
}

// Ask sends a question about an issue and returns the agent's answer. The
// call is bounded by the dialog timeout.
func (s *Service) Ask(ctx context.Context, issueID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	ctx, reviewID, err := s.target(ctx, issueID)
	if err != nil {
		return "", err
	}

	t := timeout.New[string](timeout.Config{DefaultTimeout: s.opts.DialogTimeout})
	answer, err := t.Execute(ctx, s.opts.DialogTimeout, func(ctx context.Context) (string, error) {
		return s.api.Dialog(ctx, reviewID, issueID, question)
	})
	if err != nil {
		return "", fmt.Errorf("ask about issue %s: %w", issueID, err)
	}
	return answer, nil
}

// Suggest fetches a proposed replacement for the issue's text.
func (s *Service) Suggest(ctx context.Context, issueID string) (review.Suggestion, error) {
	ctx, reviewID, err := s.target(ctx, issueID)
	if err != nil {
		return review.Suggestion{}, err
	}

	sugg, err := s.api.Suggest(ctx, reviewID, issueID)
	if err != nil {
		return review.Suggestion{}, fmt.Errorf("suggest for issue %s: %w", issueID, err)
	}
	return sugg, nil
}

// ApplySuggestion asks the backend to apply the suggestion. A "failed"
// result is reported as ErrApplyRejected.
func (s *Service) ApplySuggestion(ctx context.Context, issueID string) error {
	ctx, reviewID, err := s.target(ctx, issueID)
	if err != nil {
		return err
	}

	res, err := s.api.ApplySuggestion(ctx, reviewID, issueID)
	if err != nil {
		return fmt.Errorf("apply suggestion for issue %s: %w", issueID, err)
	}
	if !res.OK() {
		return ErrApplyRejected
	}
	return nil
}

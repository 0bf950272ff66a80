package reviews

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/review"
)

// StatusChange records one optimistic triage update. Seq orders the
// changes made to one issue; a larger value is a newer change.
type StatusChange struct {
	ReviewID string
	IssueID  string
	Previous review.IssueStatus
	Next     review.IssueStatus
	Seq      uint64
}

// Changed reports whether the update altered local state.
func (c StatusChange) Changed() bool {
	return c.Previous != c.Next
}

// ChangeStatus applies next to the store immediately and returns the change
// for acknowledgment. The backend is not contacted.
func (s *Service) ChangeStatus(issueID string, next review.IssueStatus) (StatusChange, error) {
	reviewID := s.store.ReviewID()
	if reviewID == "" {
		return StatusChange{}, ErrNoReview
	}

	prev, ok := s.store.UpdateIssueStatus(issueID, next)
	if !ok {
		return StatusChange{}, fmt.Errorf("%w: %s", ErrUnknownIssue, issueID)
	}

	change := StatusChange{ReviewID: reviewID, IssueID: issueID, Previous: prev, Next: next}
	key := seqKey(reviewID, issueID)

	s.mu.Lock()
	if change.Changed() {
		s.seqs[key]++
	}
	change.Seq = s.seqs[key]
	s.mu.Unlock()

	return change, nil
}

// latest reports whether change is the newest one made to its issue.
func (s *Service) latest(change StatusChange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seqs[seqKey(change.ReviewID, change.IssueID)] == change.Seq
}

func seqKey(reviewID, issueID string) string {
	return reviewID + "/" + issueID
}

// Acknowledge sends a change to the backend, retrying with exponential
// backoff. A "failed" result counts as a failed attempt.
func (s *Service) Acknowledge(ctx context.Context, change StatusChange) error {
	if !change.Changed() {
		return nil
	}

	ctx = logging.WithReviewID(ctx, change.ReviewID)
	r := retry.New[review.ActionResult](retry.Config{
		MaxAttempts:   s.opts.RetryAttempts,
		InitialDelay:  s.opts.RetryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})

	_, err := r.Do(ctx, func(ctx context.Context) (review.ActionResult, error) {
		res, err := s.api.UpdateIssueStatus(ctx, change.ReviewID, change.IssueID, change.Next)
		if err != nil {
			return res, err
		}
		if !res.OK() {
			return res, ErrStatusRejected
		}
		return res, nil
	})
	if err != nil {
		return fmt.Errorf("update status of issue %s: %w", change.IssueID, err)
	}
	return nil
}

// Reconcile handles the acknowledgment result of change. When err is
// non-nil the local value is reverted, but only if change is still the
// newest change to its issue and the store holds its value for the same
// review. A newer local change is never overwritten, even one that set
// the same status again. It reports whether a revert happened.
func (s *Service) Reconcile(change StatusChange, err error) bool {
	if err == nil {
		return false
	}

	if s.store.ReviewID() != change.ReviewID {
		return false
	}
	current, ok := s.store.Issue(change.IssueID)
	if !ok || !s.latest(change) || current.Status != change.Next {
		s.log.Warn().
			Err(err).
			Str("review_id", change.ReviewID).
			Str("issue_id", change.IssueID).
			Msg("status acknowledgment failed; newer local state kept")
		return false
	}

	s.store.UpdateIssueStatus(change.IssueID, change.Previous)
	s.log.Warn().
		Err(err).
		Str("review_id", change.ReviewID).
		Str("issue_id", change.IssueID).
		Str("reverted_to", string(change.Previous)).
		Msg("status acknowledgment failed; reverted")
	return true
}

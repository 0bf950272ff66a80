package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zerebom/revural/internal/core/review"
)

// ErrEmptyReviewID is returned when the backend accepts a review without
// returning its id.
var ErrEmptyReviewID = errors.New("backend returned an empty review id")

// StartReview submits a document and returns the new review id.
func (c *Client) StartReview(ctx context.Context, req review.StartRequest) (string, error) {
	var resp review.StartResponse
	if err := c.do(ctx, http.MethodPost, "/reviews", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.ReviewID) == "" {
		return "", ErrEmptyReviewID
	}
	return resp.ReviewID, nil
}

// GetReview fetches the current status of a review. An unknown status value
// is reported as an error wrapping review.ErrUnknownStatus.
func (c *Client) GetReview(ctx context.Context, reviewID string) (review.StatusPayload, error) {
	var payload review.StatusPayload
	if err := c.do(ctx, http.MethodGet, reviewPath(reviewID), nil, &payload); err != nil {
		return review.StatusPayload{}, err
	}
	if err := payload.Validate(); err != nil {
		return review.StatusPayload{}, fmt.Errorf("get review %s: %w", reviewID, err)
	}
	return payload, nil
}

// GetReviewSummary fetches aggregated statistics and all issues.
func (c *Client) GetReviewSummary(ctx context.Context, reviewID string) (review.Summary, error) {
	var summary review.Summary
	if err := c.do(ctx, http.MethodGet, reviewPath(reviewID, "summary"), nil, &summary); err != nil {
		return review.Summary{}, err
	}
	if summary.Status != "" {
		st, err := review.ParseStatus(string(summary.Status))
		if err != nil {
			return review.Summary{}, fmt.Errorf("get review summary %s: %w", reviewID, err)
		}
		summary.Status = st
	}
	summary.Issues = review.NormalizeIssues(summary.Issues)
	return summary, nil
}

// Dialog asks the agent behind an issue a question.
func (c *Client) Dialog(ctx context.Context, reviewID, issueID, question string) (string, error) {
	var resp review.DialogResponse
	req := review.DialogRequest{QuestionText: question}
	if err := c.do(ctx, http.MethodPost, issuePath(reviewID, issueID, "dialog"), req, &resp); err != nil {
		return "", err
	}
	return resp.ResponseText, nil
}

// Suggest requests a replacement text for an issue.
func (c *Client) Suggest(ctx context.Context, reviewID, issueID string) (review.Suggestion, error) {
	var resp review.Suggestion
	if err := c.do(ctx, http.MethodPost, issuePath(reviewID, issueID, "suggest"), nil, &resp); err != nil {
		return review.Suggestion{}, err
	}
	return resp, nil
}

// ApplySuggestion asks the backend to apply the last suggestion.
func (c *Client) ApplySuggestion(ctx context.Context, reviewID, issueID string) (review.ActionResult, error) {
	var resp review.ActionResult
	if err := c.do(ctx, http.MethodPost, issuePath(reviewID, issueID, "apply_suggestion"), nil, &resp); err != nil {
		return review.ActionResult{}, err
	}
	return resp, nil
}

// UpdateIssueStatus records a triage state change.
func (c *Client) UpdateIssueStatus(ctx context.Context, reviewID, issueID string, status review.IssueStatus) (review.ActionResult, error) {
	var resp review.ActionResult
	req := review.StatusUpdateRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, issuePath(reviewID, issueID, "status"), req, &resp); err != nil {
		return review.ActionResult{}, err
	}
	return resp, nil
}

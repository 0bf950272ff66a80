// Package review defines the domain types exchanged with the review backend.
//
// Values decoded from the wire are normalized once (see [Issue.Normalize])
// so the rest of the program never checks for absent optional fields.
package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownStatus is returned when a status payload carries a value outside
// the known review lifecycle.
var ErrUnknownStatus = errors.New("unknown review status")

// Status is the lifecycle state of a review job on the backend.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusNotFound   Status = "not_found"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusProcessing, StatusCompleted, StatusFailed, StatusNotFound:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusNotFound
}

// IssueStatus is the user-managed triage state of a single issue.
type IssueStatus string

const (
	IssuePending IssueStatus = "pending"
	IssueLater   IssueStatus = "later"
	IssueDone    IssueStatus = "done"
)

// IssueStatuses lists the triage states in display order.
var IssueStatuses = []IssueStatus{IssuePending, IssueLater, IssueDone}

// ParseIssueStatus maps a raw value onto a triage state. Empty and unknown
// values become pending.
func ParseIssueStatus(s string) IssueStatus {
	switch st := IssueStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case IssuePending, IssueLater, IssueDone:
		return st
	default:
		return IssuePending
	}
}

// Label returns the human readable name used in statistics and the TUI.
func (s IssueStatus) Label() string {
	switch s {
	case IssueDone:
		return "Done"
	case IssueLater:
		return "Later"
	case IssuePending, "":
		return "Pending"
	default:
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}

// Span is a half-open range [Start, End) of Unicode code points into the
// reviewed document.
type Span struct {
	Start int `json:"start_index"`
	End   int `json:"end_index"`
}

// Valid reports whether the span satisfies 0 <= Start < End.
func (s *Span) Valid() bool {
	return s != nil && s.Start >= 0 && s.Start < s.End
}

// Issue is one finding produced by a reviewer agent.
type Issue struct {
	ID           string      `json:"issue_id"`
	Priority     int         `json:"priority"`
	AgentName    string      `json:"agent_name"`
	Summary      string      `json:"summary,omitempty"`
	Comment      string      `json:"comment"`
	OriginalText string      `json:"original_text"`
	Status       IssueStatus `json:"status,omitempty"`
	Span         *Span       `json:"span,omitempty"`
}

// Normalize applies the documented defaults: unknown statuses become
// pending, priorities outside 1-3 become 0 (unknown), and spans that violate
// 0 <= start < end are dropped so that text search can take over.
func (i Issue) Normalize() Issue {
	i.Status = ParseIssueStatus(string(i.Status))
	if i.Priority < 1 || i.Priority > 3 {
		i.Priority = 0
	}
	if i.Span != nil {
		if i.Span.Valid() {
			span := *i.Span
			i.Span = &span
		} else {
			i.Span = nil
		}
	}
	return i
}

// NormalizeIssues returns a normalized copy of issues. A nil input yields nil.
func NormalizeIssues(issues []Issue) []Issue {
	if issues == nil {
		return nil
	}
	out := make([]Issue, len(issues))
	for idx, is := range issues {
		out[idx] = is.Normalize()
	}
	return out
}

// Headline is the one-line title of the issue: its summary if present,
// otherwise the first non-empty line of the comment.
func (i Issue) Headline() string {
	if s := strings.TrimSpace(i.Summary); s != "" {
		return s
	}
	for line := range strings.SplitSeq(i.Comment, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// PriorityLabel renders the priority as P1..P3, or P? when unknown.
func (i Issue) PriorityLabel() string {
	if i.Priority < 1 || i.Priority > 3 {
		return "P?"
	}
	return "P" + strconv.Itoa(i.Priority)
}

// AgentLabel returns the agent name, or "Unknown" when the backend left it
// blank.
func (i Issue) AgentLabel() string {
	if s := strings.TrimSpace(i.AgentName); s != "" {
		return s
	}
	return "Unknown"
}

// StatusPayload is the body of GET /reviews/{id}.
type StatusPayload struct {
	Status          Status   `json:"status"`
	Issues          []Issue  `json:"issues"`
	DocumentText    string   `json:"prd_text,omitempty"`
	Progress        *float64 `json:"progress,omitempty"`
	PhaseMessage    string   `json:"phase_message,omitempty"`
	ExpectedAgents  []string `json:"expected_agents,omitempty"`
	CompletedAgents []string `json:"completed_agents,omitempty"`
}

// Validate checks the status value and normalizes the carried issues.
func (p *StatusPayload) Validate() error {
	st, err := ParseStatus(string(p.Status))
	if err != nil {
		return err
	}
	p.Status = st
	p.Issues = NormalizeIssues(p.Issues)
	if p.Progress != nil {
		v := min(max(*p.Progress, 0), 1)
		p.Progress = &v
	}
	return nil
}

// StartRequest is the body of POST /reviews.
type StartRequest struct {
	DocumentText       string   `json:"prd_text"`
	PanelType          *string  `json:"panel_type"`
	SelectedAgentRoles []string `json:"selected_agent_roles,omitempty"`
}

// StartResponse is the body returned by POST /reviews.
type StartResponse struct {
	ReviewID string `json:"review_id"`
}

// DialogRequest asks the agent behind an issue a question.
type DialogRequest struct {
	QuestionText string `json:"question_text"`
}

// DialogResponse carries the agent's answer.
type DialogResponse struct {
	ResponseText string `json:"response_text"`
}

// Suggestion is a proposed replacement for the issue's target text.
type Suggestion struct {
	SuggestedText string `json:"suggested_text"`
	TargetText    string `json:"target_text"`
}

// ActionStatus is the outcome reported by mutating issue endpoints.
type ActionStatus string

const (
	ActionSuccess ActionStatus = "success"
	ActionFailed  ActionStatus = "failed"
)

// ActionResult is the body returned by apply_suggestion and status updates.
type ActionResult struct {
	Status ActionStatus `json:"status"`
}

// OK reports whether the backend accepted the action.
func (r ActionResult) OK() bool {
	return r.Status == ActionSuccess
}

// StatusUpdateRequest is the body of PATCH .../issues/{iid}/status.
type StatusUpdateRequest struct {
	Status IssueStatus `json:"status"`
}

// ShortenText trims text and truncates it to limit code points, appending an
// ellipsis when something was cut. A non-positive limit disables truncation.
func ShortenText(text string, limit int) string {
	normalized := strings.TrimSpace(text)
	if limit <= 0 {
		return normalized
	}
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return strings.TrimRight(string(runes[:limit]), " \t\n") + "..."
}

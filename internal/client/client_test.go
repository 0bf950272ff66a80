package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebom/revural/internal/core/review"
)

type recorded struct {
	method    string
	path      string
	body      string
	requestID string
	ctype     string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{
			method:    r.Method,
			path:      r.URL.EscapedPath(),
			body:      string(body),
			requestID: r.Header.Get(RequestIDHeader),
			ctype:     r.Header.Get("Content-Type"),
		})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c, rec
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := New("localhost:8000")
	assert.Error(t, err)

	c, err := New("http://localhost:8000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

func TestStartReview(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"review_id": "rev-1"})
	})

	panel := "technical_spec"
	id, err := c.StartReview(context.Background(), review.StartRequest{
		DocumentText:       "# Spec",
		PanelType:          &panel,
		SelectedAgentRoles: []string{"engineer", "qa_tester"},
	})
	require.NoError(t, err)
	assert.Equal(t, "rev-1", id)

	require.Len(t, calls.all(), 1)
	call := calls.all()[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/reviews", call.path)
	assert.Equal(t, "application/json", call.ctype)
	assert.JSONEq(t, `{"prd_text":"# Spec","panel_type":"technical_spec","selected_agent_roles":["engineer","qa_tester"]}`, call.body)
	_, err = uuid.Parse(call.requestID)
	assert.NoError(t, err, "request id should be a uuid")
}

func TestStartReview_EmptyID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"review_id": ""})
	})

	_, err := c.StartReview(context.Background(), review.StartRequest{DocumentText: "doc"})
	assert.ErrorIs(t, err, ErrEmptyReviewID)
}

func TestGetReview_NormalizesIssues(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"completed","issues":[
			{"issue_id":"i1","priority":1,"agent_name":"QA","comment":"c","original_text":"x","status":"LATER"},
			{"issue_id":"i2","priority":2,"agent_name":"PM","comment":"c","original_text":"y","span":{"start_index":4,"end_index":2}}
		]}`)
	})

	payload, err := c.GetReview(context.Background(), "rev 1")
	require.NoError(t, err)

	assert.Equal(t, "/reviews/rev%201", calls.all()[0].path)
	assert.Equal(t, review.StatusCompleted, payload.Status)
	require.Len(t, payload.Issues, 2)
	assert.Equal(t, review.IssueLater, payload.Issues[0].Status)
	assert.Nil(t, payload.Issues[1].Span)
	assert.Equal(t, review.IssuePending, payload.Issues[1].Status)
}

func TestGetReview_UnknownStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "queued"})
	})

	_, err := c.GetReview(context.Background(), "rev-1")
	assert.ErrorIs(t, err, review.ErrUnknownStatus)
}

func TestTransportError_NonSuccess(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream exploded")
	})

	_, err := c.GetReview(context.Background(), "rev-1")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Method)
	assert.Equal(t, "/reviews/rev-1", te.Path)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, "upstream exploded", te.Body)
	assert.Equal(t, "API error 502: upstream exploded", te.Error())
	assert.True(t, IsStatus(err, http.StatusBadGateway))
}

func TestTransportError_Network(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.GetReview(context.Background(), "rev-1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
	assert.NotNil(t, errors.Unwrap(te))
}

func TestIssueActions(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reviews/rev-1/issues/i1/dialog":
			writeJSON(w, map[string]string{"response_text": "because"})
		case "/reviews/rev-1/issues/i1/suggest":
			writeJSON(w, map[string]string{"suggested_text": "new", "target_text": "old"})
		case "/reviews/rev-1/issues/i1/apply_suggestion":
			writeJSON(w, map[string]string{"status": "failed"})
		case "/reviews/rev-1/issues/i1/status":
			writeJSON(w, map[string]string{"status": "success"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	answer, err := c.Dialog(ctx, "rev-1", "i1", "why?")
	require.NoError(t, err)
	assert.Equal(t, "because", answer)

	sugg, err := c.Suggest(ctx, "rev-1", "i1")
	require.NoError(t, err)
	assert.Equal(t, review.Suggestion{SuggestedText: "new", TargetText: "old"}, sugg)

	applied, err := c.ApplySuggestion(ctx, "rev-1", "i1")
	require.NoError(t, err)
	assert.False(t, applied.OK())

	updated, err := c.UpdateIssueStatus(ctx, "rev-1", "i1", review.IssueDone)
	require.NoError(t, err)
	assert.True(t, updated.OK())

	require.Len(t, calls.all(), 4)
	assert.JSONEq(t, `{"question_text":"why?"}`, calls.all()[0].body)
	assert.Equal(t, http.MethodPost, calls.all()[1].method)
	assert.Empty(t, calls.all()[1].body)
	assert.Equal(t, http.MethodPatch, calls.all()[3].method)
	assert.JSONEq(t, `{"status":"done"}`, calls.all()[3].body)
}

func TestGetReviewSummary(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status": "completed",
			"statistics": map[string]any{
				"total_issues":  1,
				"status_counts": []map[string]any{{"key": "pending", "label": "Pending", "count": 1}},
				"agent_counts":  []map[string]any{{"agent_name": "QA", "count": 1}},
			},
			"issues": []map[string]any{{"issue_id": "i1", "priority": 1, "agent_name": "QA", "comment": "c", "original_text": ""}},
		})
	})

	summary, err := c.GetReviewSummary(context.Background(), "rev-1")
	require.NoError(t, err)

	assert.Equal(t, "/reviews/rev-1/summary", calls.all()[0].path)
	assert.Equal(t, review.StatusCompleted, summary.Status)
	assert.Equal(t, 1, summary.Statistics.TotalIssues)
	require.Len(t, summary.Issues, 1)
	assert.Equal(t, review.IssuePending, summary.Issues[0].Status)
}

func TestDecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	})

	_, err := c.Suggest(context.Background(), "rev-1", "i1")
	require.Error(t, err)

	var te *TransportError
	assert.False(t, errors.As(err, &te), "decode failures are not transport errors")
}

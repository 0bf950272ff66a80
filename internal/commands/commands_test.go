package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/zerebom/revural/internal/core/config"
	"github.com/zerebom/revural/internal/core/lifecycle"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/validate"
	"github.com/zerebom/revural/internal/reviews"
	"github.com/zerebom/revural/pkg/docinput"
)

// backend is a scripted review service. Status responses are served in
// order; the last one repeats.
type backend struct {
	mu       sync.Mutex
	statuses []string
	served   int
	started  []map[string]any
	summary  string
}

func (b *backend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/reviews":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			b.started = append(b.started, body)
			_, _ = io.WriteString(w, `{"review_id":"r-new"}`)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/summary"):
			_, _ = io.WriteString(w, b.summary)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/reviews/"):
			idx := min(b.served, len(b.statuses)-1)
			b.served++
			_, _ = io.WriteString(w, b.statuses[idx])
		default:
			http.NotFound(w, r)
		}
	}
}

func (b *backend) startedBodies() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.started)
}

func (b *backend) servedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.served
}

func newTestFlags(t *testing.T, b *backend) *Flags {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Polling.Interval = time.Millisecond
	return &Flags{Config: &cfg, APIURL: srv.URL}
}

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

func runCmd(t *testing.T, cmd registrar, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := cmd.Register(&cli.Command{Name: "revural", Writer: &buf, ErrWriter: io.Discard})
	err := app.Run(context.Background(), append([]string{"revural"}, args...))
	return buf.String(), err
}

const (
	processingJSON = `{"status":"processing","progress":0.4,"phase_message":"Agents reviewing"}`
	completedJSON  = `{"status":"completed","issues":[{"issue_id":"i1","priority":1,"agent_name":"engineer","comment":"Pick an exact color","original_text":"button must be blue"}]}`
)

func TestSubmit_Detach(t *testing.T) {
	b := &backend{}
	flags := newTestFlags(t, b)

	cmd := NewSubmitCmd(flags)
	cmd.reader = &docinput.Reader{Stdin: strings.NewReader("# Checkout\nThe button must be blue."), IsTerminal: func() bool { return false }}
	cmd.interactive = func() bool { return false }

	out, err := runCmd(t, cmd, "submit", "--preset", "technical_spec", "--detach")
	require.NoError(t, err)
	assert.Equal(t, "r-new\n", out)

	started := b.startedBodies()
	require.Len(t, started, 1)
	body := started[0]
	assert.Equal(t, "# Checkout\nThe button must be blue.", body["prd_text"])
	assert.Nil(t, body["panel_type"])
	assert.ElementsMatch(t, []any{"engineer", "security_specialist", "qa_tester", "data_scientist"}, body["selected_agent_roles"])
}

func TestSubmit_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown preset", args: []string{"submit", "--preset", "nope", "--detach"}, want: "unknown preset"},
		{name: "unknown role", args: []string{"submit", "--role", "wizard", "--detach"}, want: "unknown reviewer role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &backend{}
			cmd := NewSubmitCmd(newTestFlags(t, b))
			cmd.reader = &docinput.Reader{Stdin: strings.NewReader("doc"), IsTerminal: func() bool { return false }}
			cmd.interactive = func() bool { return false }

			_, err := runCmd(t, cmd, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, b.startedBodies(), "nothing is submitted")
		})
	}
}

func TestResolveRoles(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name    string
		preset  string
		roles   []string
		want    []string
		wantErr bool
	}{
		{name: "backend default", want: nil},
		{name: "preset", preset: "ui_ux_spec", want: []string{"ux_designer", "ux_writer", "pm", "marketing_strategist"}},
		{name: "roles win over preset", preset: "ui_ux_spec", roles: []string{"engineer", "engineer", "pm"}, want: []string{"engineer", "pm"}},
		{name: "unknown role", roles: []string{"chef"}, wantErr: true},
		{name: "unknown preset", preset: "missing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveRoles(&cfg, tt.preset, tt.roles)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Once(t *testing.T) {
	b := &backend{statuses: []string{processingJSON}}
	out, err := runCmd(t, NewStatusCmd(newTestFlags(t, b)), "status", "--json", "r1")
	require.NoError(t, err)

	var got statusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "r1", got.ReviewID)
	assert.Equal(t, review.StatusProcessing, got.Status)
	require.NotNil(t, got.Progress)
	assert.InDelta(t, 0.4, *got.Progress, 1e-9)
}

func TestStatus_Wait(t *testing.T) {
	b := &backend{statuses: []string{processingJSON, processingJSON, completedJSON}}
	out, err := runCmd(t, NewStatusCmd(newTestFlags(t, b)), "status", "--wait", "r1")
	require.NoError(t, err)

	assert.Contains(t, out, "processing")
	assert.Contains(t, out, "Review r1: completed")
	assert.Contains(t, out, "Pick an exact color")
	assert.Equal(t, 3, b.servedCount())
}

func TestStatus_WaitJSONLines(t *testing.T) {
	b := &backend{statuses: []string{processingJSON, completedJSON}}
	out, err := runCmd(t, NewStatusCmd(newTestFlags(t, b)), "status", "--wait", "--json", "r1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var last statusOutput
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	assert.Equal(t, review.StatusCompleted, last.Status)
	require.Len(t, last.Issues, 1)
	assert.Equal(t, "i1", last.Issues[0].ID)
}

func TestStatus_WaitTerminalFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "failed", payload: `{"status":"failed"}`, wantErr: lifecycle.ErrReviewFailed},
		{name: "not found", payload: `{"status":"not_found"}`, wantErr: lifecycle.ErrReviewNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &backend{statuses: []string{tt.payload}}
			_, err := runCmd(t, NewStatusCmd(newTestFlags(t, b)), "status", "--wait", "r1")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatus_RequiresID(t *testing.T) {
	_, err := runCmd(t, NewStatusCmd(newTestFlags(t, &backend{})), "status")
	require.ErrorIs(t, err, validate.ErrReviewIDRequired)
}

const summaryJSON = `{"status":"completed","statistics":{"total_issues":1,"status_counts":[{"key":"pending","label":"Pending","count":1}],"agent_counts":[{"agent_name":"engineer","count":1}]},"issues":[{"issue_id":"i1","priority":1,"agent_name":"engineer","comment":"Pick an exact color","original_text":"button must be blue"}]}`

func TestSummary_Raw(t *testing.T) {
	b := &backend{summary: summaryJSON}
	out, err := runCmd(t, NewSummaryCmd(newTestFlags(t, b)), "summary", "--raw", "r1")
	require.NoError(t, err)

	var s review.Summary
	require.NoError(t, json.Unmarshal([]byte(summaryJSON), &s))
	s.Issues = review.NormalizeIssues(s.Issues)
	assert.Equal(t, reviews.SummaryMarkdown("r1", s), out)
	assert.Contains(t, out, "> button must be blue")
}

func TestSummary_OutputFile(t *testing.T) {
	b := &backend{summary: summaryJSON}
	path := filepath.Join(t.TempDir(), "review.md")

	out, err := runCmd(t, NewSummaryCmd(newTestFlags(t, b)), "summary", "-o", path, "r1")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Review Summary (r1)"))
}

func TestPresets_JSON(t *testing.T) {
	out, err := runCmd(t, NewPresetsCmd(newTestFlags(t, &backend{})), "presets", "--json")
	require.NoError(t, err)

	var got []presetOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got)
	assert.Equal(t, "business_plan", got[0].Key, "sorted by key")
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		flags := newTestFlags(t, &backend{})
		flags.Config.Polling.Interval = config.DefaultPollInterval

		out, err := runCmd(t, NewConfigValidateCmd(flags), "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "is valid")
	})

	t.Run("field errors", func(t *testing.T) {
		flags := newTestFlags(t, &backend{})
		flags.Config.Polling.Interval = config.DefaultPollInterval
		flags.Config.TUI.Theme = "neon"

		out, err := runCmd(t, NewConfigValidateCmd(flags), "config", "validate", "--format", "json")
		require.ErrorIs(t, err, errInvalidConfig)

		var got struct {
			Valid  bool              `json:"valid"`
			Errors []validationIssue `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.False(t, got.Valid)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "tui.theme", got.Errors[0].Field)
	})
}

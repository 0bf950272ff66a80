package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zerebom/revural/internal/core/review"
)

func TestResolve(t *testing.T) {
	doc := "The button must be blue. Users can click it."

	tests := []struct {
		name   string
		issue  review.Issue
		want   Range
		wantOK bool
	}{
		{
			name:   "explicit span is trusted",
			issue:  review.Issue{ID: "a", Span: &review.Span{Start: 4, End: 23}, OriginalText: "Users"},
			want:   Range{IssueID: "a", Start: 4, End: 23},
			wantOK: true,
		},
		{
			name:   "span end is clamped",
			issue:  review.Issue{ID: "a", Span: &review.Span{Start: 35, End: 500}},
			want:   Range{IssueID: "a", Start: 35, End: 44},
			wantOK: true,
		},
		{
			name:  "span starting at document length is discarded",
			issue: review.Issue{ID: "a", Span: &review.Span{Start: 44, End: 50}, OriginalText: "Users"},
		},
		{
			name:  "span starting past document length is discarded",
			issue: review.Issue{ID: "a", Span: &review.Span{Start: 100, End: 120}},
		},
		{
			name:   "invalid span falls back to text search",
			issue:  review.Issue{ID: "a", Span: &review.Span{Start: 9, End: 3}, OriginalText: "Users"},
			want:   Range{IssueID: "a", Start: 25, End: 30},
			wantOK: true,
		},
		{
			name:   "original text is trimmed before search",
			issue:  review.Issue{ID: "a", OriginalText: "  click it \n"},
			want:   Range{IssueID: "a", Start: 35, End: 43},
			wantOK: true,
		},
		{
			name:  "search is case sensitive",
			issue: review.Issue{ID: "a", OriginalText: "users"},
		},
		{
			name:  "missing text is unresolved",
			issue: review.Issue{ID: "a", OriginalText: "checkout"},
		},
		{
			name:  "blank text is unresolved",
			issue: review.Issue{ID: "a", OriginalText: "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(doc, tt.issue)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_FirstOccurrence(t *testing.T) {
	doc := "blue, blue, blue"
	got, ok := Resolve(doc, review.Issue{ID: "a", OriginalText: "blue"})

	assert.True(t, ok)
	assert.Equal(t, Range{IssueID: "a", Start: 0, End: 4}, got)
}

func TestResolve_CodePointOffsets(t *testing.T) {
	doc := "仕様書: ボタンは青。"

	got, ok := Resolve(doc, review.Issue{ID: "a", OriginalText: "ボタン"})
	assert.True(t, ok)
	assert.Equal(t, Range{IssueID: "a", Start: 5, End: 8}, got)

	got, ok = Resolve(doc, review.Issue{ID: "b", Span: &review.Span{Start: 5, End: 8}})
	assert.True(t, ok)
	assert.Equal(t, Range{IssueID: "b", Start: 5, End: 8}, got)
}

func TestResolveAll_SkipsUnresolved(t *testing.T) {
	doc := "alpha beta gamma"
	issues := []review.Issue{
		{ID: "1", OriginalText: "gamma"},
		{ID: "2", OriginalText: "delta"},
		{ID: "3", Span: &review.Span{Start: 0, End: 5}},
	}

	got := ResolveAll(doc, issues)

	assert.Equal(t, []Range{
		{IssueID: "1", Start: 11, End: 16},
		{IssueID: "3", Start: 0, End: 5},
	}, got)
}

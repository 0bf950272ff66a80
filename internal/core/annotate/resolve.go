package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/zerebom/revural/internal/core/review"
)

// Range is a resolved half-open interval [Start, End) of code points that
// an issue highlights.
type Range struct {
	IssueID string
	Start   int
	End     int
}

// Len returns the number of code points covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Resolve locates the text an issue refers to.
//
// A valid explicit span is trusted: its end is clamped to the document
// length, and a span starting at or past the end of the document is
// discarded without falling back to text search. Without a span the trimmed
// original text is searched for (first exact, case-sensitive occurrence).
// The second result is false when the issue cannot be placed.
func Resolve(doc string, issue review.Issue) (Range, bool) {
	docLen := utf8.RuneCountInString(doc)

	if issue.Span.Valid() {
		if issue.Span.Start >= docLen {
			return Range{}, false
		}
		return Range{
			IssueID: issue.ID,
			Start:   issue.Span.Start,
			End:     min(issue.Span.End, docLen),
		}, true
	}

	needle := strings.TrimSpace(issue.OriginalText)
	if needle == "" {
		return Range{}, false
	}

	pos := strings.Index(doc, needle)
	if pos < 0 {
		return Range{}, false
	}

	start := utf8.RuneCountInString(doc[:pos])
	return Range{
		IssueID: issue.ID,
		Start:   start,
		End:     start + utf8.RuneCountInString(needle),
	}, true
}

// ResolveAll resolves every issue in order and returns the ranges of those
// that could be placed. Unresolved issues are omitted.
func ResolveAll(doc string, issues []review.Issue) []Range {
	ranges := make([]Range, 0, len(issues))
	for _, is := range issues {
		if r, ok := Resolve(doc, is); ok {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

package annotate

import (
	"slices"
	"strings"

	"github.com/zerebom/revural/internal/core/review"
)

// SegmentKind distinguishes plain text from highlighted text.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentMark
)

func (k SegmentKind) String() string {
	if k == SegmentMark {
		return "mark"
	}
	return "text"
}

// Segment is one contiguous piece of the document. IssueID is set only for
// marks. Start and End are code point offsets of the piece.
type Segment struct {
	Kind    SegmentKind
	Content string
	IssueID string
	Start   int
	End     int
}

// IsMark reports whether the segment highlights an issue.
func (s Segment) IsMark() bool {
	return s.Kind == SegmentMark
}

// Build partitions doc into ordered, non-overlapping segments.
//
// Ranges may be unordered, overlapping or out of bounds. Invalid ranges are
// dropped, ends are clamped, and the rest are stably sorted by start so
// that ties keep their input order. A range fully covered by earlier marks
// produces nothing; a partially covered one is trimmed to start at the end
// of the previous mark. Joining the contents of the result always yields
// doc.
func Build(doc string, ranges []Range) []Segment {
	offsets := byteOffsets(doc)
	docLen := len(offsets) - 1

	clean := sanitize(ranges, docLen)

	segments := make([]Segment, 0, 2*len(clean)+1)
	cursor := 0
	for _, r := range clean {
		if r.End <= cursor {
			continue
		}
		if r.Start > cursor {
			segments = append(segments, textSegment(doc, offsets, cursor, r.Start))
		}
		start := max(r.Start, cursor)
		segments = append(segments, Segment{
			Kind:    SegmentMark,
			Content: doc[offsets[start]:offsets[r.End]],
			IssueID: r.IssueID,
			Start:   start,
			End:     r.End,
		})
		cursor = r.End
	}
	if cursor < docLen {
		segments = append(segments, textSegment(doc, offsets, cursor, docLen))
	}

	return segments
}

// Annotate resolves issues against doc and segments the result.
func Annotate(doc string, issues []review.Issue) []Segment {
	return Build(doc, ResolveAll(doc, issues))
}

// Join concatenates segment contents.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Content)
	}
	return b.String()
}

// MarkIDs returns the issue ids of mark segments in document order, each id
// at most once.
func MarkIDs(segments []Segment) []string {
	ids := make([]string, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		if !s.IsMark() {
			continue
		}
		if _, ok := seen[s.IssueID]; ok {
			continue
		}
		seen[s.IssueID] = struct{}{}
		ids = append(ids, s.IssueID)
	}
	return ids
}

// IndexOf returns the index of the first mark segment for issueID, or -1.
func IndexOf(segments []Segment, issueID string) int {
	if issueID == "" {
		return -1
	}
	return slices.IndexFunc(segments, func(s Segment) bool {
		return s.IsMark() && s.IssueID == issueID
	})
}

func sanitize(ranges []Range, docLen int) []Range {
	out := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Start < 0 || r.Start >= r.End || r.Start >= docLen {
			continue
		}
		r.End = min(r.End, docLen)
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b Range) int {
		return a.Start - b.Start
	})
	return out
}

// byteOffsets maps each code point index of doc to its byte offset, with
// len(doc) appended. Invalid UTF-8 bytes count as one code point each, the
// same as utf8.RuneCountInString.
func byteOffsets(doc string) []int {
	offsets := make([]int, 0, len(doc)+1)
	for i := range doc {
		offsets = append(offsets, i)
	}
	return append(offsets, len(doc))
}

func textSegment(doc string, offsets []int, start, end int) Segment {
	return Segment{
		Kind:    SegmentText,
		Content: doc[offsets[start]:offsets[end]],
		Start:   start,
		End:     end,
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zerebom/revural/internal/core/annotate"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/styles"
)

// renderDocument draws segments wrapped to width. Marks take their agent's
// color; the focused mark is emphasized. It also returns the wrapped line
// on which the focused mark starts, or -1.
func renderDocument(segments []annotate.Segment, issues []review.Issue, focused string, width int) (string, int) {
	agents := make(map[string]string, len(issues))
	for _, is := range issues {
		agents[is.ID] = is.AgentName
	}

	var b strings.Builder
	focusLine := -1
	focusIdx := annotate.IndexOf(segments, focused)

	for i, seg := range segments {
		if i == focusIdx {
			focusLine = wrappedLines(b.String(), width) - 1
			if focusLine < 0 {
				focusLine = 0
			}
		}
		if !seg.IsMark() {
			b.WriteString(seg.Content)
			continue
		}
		b.WriteString(renderMark(seg.Content, styles.MarkStyle(agents[seg.IssueID], seg.IssueID == focused)))
	}

	return wrap(b.String(), width), focusLine
}

// renderMark styles each line separately so lipgloss does not pad a
// multi-line mark into a block.
func renderMark(content string, style lipgloss.Style) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

// wrappedLines counts the lines s occupies after wrapping. Text that ends
// mid-line counts the partial line.
func wrappedLines(s string, width int) int {
	if s == "" {
		return 1
	}
	return strings.Count(wrap(s, width), "\n") + 1
}

// scrollTarget returns the y offset that brings line into a view of height
// rows starting at offset, or offset when line is already visible.
func scrollTarget(line, offset, height int) int {
	if line < 0 || height <= 0 {
		return offset
	}
	if line >= offset && line < offset+height {
		return offset
	}
	return max(line-height/3, 0)
}

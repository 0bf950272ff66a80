package styles

import "github.com/zerebom/revural/internal/core/review"

var (
	IconPending = "○"
	IconLater   = "◔"
	IconDone    = "●"
	IconWarning = "⚠"
	IconError   = "✗"
	IconCheck   = "✓"
)

// StatusIcon returns the glyph shown next to an issue's triage state.
func StatusIcon(s review.IssueStatus) string {
	switch s {
	case review.IssueDone:
		return IconDone
	case review.IssueLater:
		return IconLater
	default:
		return IconPending
	}
}

package reviews

import (
	"fmt"
	"strings"

	"github.com/zerebom/revural/internal/core/review"
)

// SummaryMarkdown renders a review summary as a markdown document. When the
// backend sent no statistics they are computed from the issues.
func SummaryMarkdown(reviewID string, summary review.Summary) string {
	stats := summary.Statistics
	if stats.TotalIssues == 0 && len(summary.Issues) > 0 {
		stats = review.ComputeStatistics(summary.Issues)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Review Summary (%s)\n\n", reviewID)
	status := summary.Status
	if status == "" {
		status = review.StatusCompleted
	}
	fmt.Fprintf(&b, "Status: **%s**\n\n", status)

	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- Total issues: %d\n", stats.TotalIssues)
	if len(stats.StatusCounts) > 0 {
		b.WriteString("- By status:\n")
		for _, sc := range stats.StatusCounts {
			label := sc.Label
			if label == "" {
				label = review.IssueStatus(sc.Key).Label()
			}
			fmt.Fprintf(&b, "  - %s: %d\n", label, sc.Count)
		}
	}
	if len(stats.AgentCounts) > 0 {
		b.WriteString("- By agent:\n")
		for _, ac := range stats.AgentCounts {
			fmt.Fprintf(&b, "  - %s: %d\n", ac.AgentName, ac.Count)
		}
	}

	b.WriteString("\n## Issues\n\n")
	if len(summary.Issues) == 0 {
		b.WriteString("No issues were reported.\n")
		return b.String()
	}

	for i, is := range summary.Issues {
		headline := is.Headline()
		if headline == "" {
			headline = fmt.Sprintf("Issue %d", i+1)
		}
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, headline)
		fmt.Fprintf(&b, "- Agent: %s\n", is.AgentLabel())
		fmt.Fprintf(&b, "- Priority: %s\n", is.PriorityLabel())
		st := is.Status
		if st == "" {
			st = review.IssuePending
		}
		fmt.Fprintf(&b, "- Status: %s\n\n", st.Label())

		if c := strings.TrimSpace(is.Comment); c != "" {
			b.WriteString(c)
			b.WriteString("\n\n")
		}
		if orig := strings.TrimSpace(is.OriginalText); orig != "" {
			for _, line := range strings.Split(orig, "\n") {
				b.WriteString("> ")
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

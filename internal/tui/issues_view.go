package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/styles"
)

type exchange struct {
	question string
	answer   string
}

// issueExtras is the per-issue conversation state shown in the detail view.
type issueExtras struct {
	exchanges  []exchange
	suggestion *review.Suggestion
	waiting    bool
}

const selectedMarker = "▌"

// renderIssueList draws one row per issue, scrolled so the focused row is
// visible within height rows.
func renderIssueList(issues []review.Issue, focused string, width, height, previewLimit int) string {
	if len(issues) == 0 {
		return styles.MutedTextStyle.Render("No issues were reported.")
	}

	idx := 0
	for i, is := range issues {
		if is.ID == focused {
			idx = i
			break
		}
	}

	start := 0
	if height > 0 && idx >= height {
		start = idx - height + 1
	}
	end := len(issues)
	if height > 0 {
		end = min(end, start+height)
	}

	rows := make([]string, 0, end-start)
	for _, is := range issues[start:end] {
		rows = append(rows, renderIssueRow(is, is.ID == focused, width, previewLimit))
	}
	return strings.Join(rows, "\n")
}

func renderIssueRow(is review.Issue, selected bool, width, previewLimit int) string {
	marker := " "
	if selected {
		marker = selectedMarker
	}

	prefix := fmt.Sprintf("%s%s %s %s ",
		marker,
		styles.StatusIcon(is.Status),
		styles.PriorityStyle(is.Priority).Render(is.PriorityLabel()),
		styles.AgentBadge(is.AgentLabel()),
	)

	headline := is.Headline()
	if headline == "" {
		headline = review.ShortenText(is.OriginalText, previewLimit)
	}
	headline = review.ShortenText(headline, previewLimit)

	avail := width - ansi.StringWidth(prefix)
	row := prefix + ansi.Truncate(headline, max(avail, 0), "…")
	if selected {
		return styles.ListRowSelectedStyle.Render(row)
	}
	return styles.ListRowStyle.Render(row)
}

// renderDetail draws the full view of one issue. Markdown in comments and
// answers goes through r when it is non-nil.
func renderDetail(is review.Issue, extras issueExtras, width int, r *glamour.TermRenderer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s %s %s\n\n",
		styles.AgentBadge(is.AgentLabel()),
		styles.PriorityStyle(is.Priority).Render(is.PriorityLabel()),
		styles.StatusIcon(is.Status),
		is.Status.Label(),
	)

	if h := is.Headline(); h != "" {
		b.WriteString(styles.PaneTitleStyle.Render(h))
		b.WriteString("\n\n")
	}

	if c := strings.TrimSpace(is.Comment); c != "" {
		b.WriteString(renderMarkdown(c, width, r))
		b.WriteString("\n")
	}

	if orig := strings.TrimSpace(is.OriginalText); orig != "" {
		b.WriteString(styles.MutedTextStyle.Render("Original text"))
		b.WriteString("\n")
		b.WriteString(styles.QuoteStyle.Width(max(width-2, 1)).Render(orig))
		b.WriteString("\n\n")
	}

	if s := extras.suggestion; s != nil {
		b.WriteString(styles.MutedTextStyle.Render("Suggestion"))
		b.WriteString("\n")
		b.WriteString(styles.SuggestionStyle.Width(max(width-2, 1)).Render(s.SuggestedText))
		b.WriteString("\n")
		b.WriteString(styles.MutedTextStyle.Render("press a to apply"))
		b.WriteString("\n\n")
	}

	for _, ex := range extras.exchanges {
		b.WriteString(styles.HelpKeyStyle.Render("Q: "))
		b.WriteString(ex.question)
		b.WriteString("\n")
		b.WriteString(renderMarkdown(ex.answer, width, r))
		b.WriteString("\n")
	}

	if extras.waiting {
		b.WriteString(styles.MutedTextStyle.Render("Waiting for an answer..."))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderMarkdown(text string, width int, r *glamour.TermRenderer) string {
	if r == nil {
		return wrap(text, width)
	}
	out, err := r.Render(text)
	if err != nil {
		return wrap(text, width)
	}
	return strings.Trim(out, "\n")
}

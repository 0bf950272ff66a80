package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/session"
	"github.com/zerebom/revural/internal/core/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	switch st := m.state(); {
	case m.fetchErr != nil:
		return m.renderFetchError()
	case st == review.StatusFailed:
		return m.renderScreen(styles.FailureStyle.Render(styles.IconError + " Review failed"),
			fmt.Sprintf("The backend could not finish review %s.", m.ticket.ReviewID),
			"Submit the document again to start a new review.")
	case st == review.StatusNotFound:
		return m.renderScreen(styles.NotFoundStyle.Render(styles.IconWarning + " Review not found"),
			fmt.Sprintf("No review with id %s exists.", m.ticket.ReviewID),
			"Check the id or submit a new review.")
	case st == review.StatusCompleted:
		return m.renderReview()
	default:
		return m.renderLoading()
	}
}

func (m Model) title() string {
	return review.DocumentTitle(m.store.DocumentText())
}

func (m Model) renderScreen(lines ...string) string {
	lines = append(lines, "", styles.MutedTextStyle.Render("q quit"))
	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

func (m Model) renderFetchError() string {
	return m.renderScreen(
		styles.ErrorTextStyle.Render(styles.IconError+" Could not reach the review service"),
		errorText(m.fetchErr),
		"",
		styles.HelpKeyStyle.Render("r")+" "+styles.HelpDescStyle.Render("retry"),
	)
}

func (m Model) renderLoading() string {
	lines := []string{
		fmt.Sprintf("%s Reviewing %q", m.spinner.View(), m.title()),
		styles.MutedTextStyle.Render(m.ticket.ReviewID),
	}

	p := m.progress
	if p.Value != nil {
		lines = append(lines, "", progressBar(*p.Value, 30))
	}
	if p.Phase != "" {
		lines = append(lines, styles.MutedTextStyle.Render(p.Phase))
	}
	if len(p.ExpectedAgents) > 0 {
		lines = append(lines, fmt.Sprintf("Agents: %d/%d done", len(p.CompletedAgents), len(p.ExpectedAgents)))
		if len(p.CompletedAgents) > 0 {
			lines = append(lines, styles.MutedTextStyle.Render(strings.Join(p.CompletedAgents, ", ")))
		}
	}

	return m.renderScreen(lines...)
}

func progressBar(v float64, width int) string {
	v = min(max(v, 0), 1)
	filled := int(v * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3.0f%%", styles.SpinnerStyle.Render(bar), v*100)
}

func (m Model) renderReview() string {
	docW, issuesW := m.paneWidths()
	bodyH := m.bodyHeight()

	docPane := m.paneFrame(m.pane == paneDocument, docW, bodyH).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.PaneTitleStyle.Render(ansi.Truncate(m.title(), m.doc.Width, "…")),
			m.doc.View(),
		))

	issuesPane := m.paneFrame(m.pane == paneIssues, issuesW, bodyH).
		Render(m.renderIssuesPane())

	body := lipgloss.JoinHorizontal(lipgloss.Top, docPane, issuesPane)
	if toasts := m.toastView.Place(m.width); toasts != "" {
		body = overlayBottom(body, toasts, m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(), m.help.View(m.keys))
}

func (m Model) paneFrame(focused bool, width, height int) lipgloss.Style {
	s := styles.PaneStyle
	if focused {
		s = styles.PaneFocusedStyle
	}
	return s.
		Width(max(width-s.GetHorizontalBorderSize(), 1)).
		Height(max(height-s.GetVerticalBorderSize(), 1))
}

func (m Model) renderIssuesPane() string {
	snap := m.store.Snapshot()
	width := m.detail.Width

	if snap.ViewMode == session.ViewDetail {
		if _, ok := snap.Focused(); ok {
			lines := []string{styles.PaneTitleStyle.Render("Issue"), m.detail.View()}
			if m.asking {
				lines = append(lines, m.input.View())
			}
			return lipgloss.JoinVertical(lipgloss.Left, lines...)
		}
	}

	title := fmt.Sprintf("Issues (%d)", len(snap.Issues))
	list := renderIssueList(snap.Issues, snap.FocusedIssueID, width, m.detail.Height, m.cfg.TUI.PreviewLimit)
	return lipgloss.JoinVertical(lipgloss.Left, styles.PaneTitleStyle.Render(title), list)
}

func (m Model) renderStatusBar() string {
	issues := m.store.Issues()
	done := 0
	for _, is := range issues {
		if is.Status == review.IssueDone {
			done++
		}
	}

	parts := []string{
		"revural",
		m.ticket.ReviewID,
		fmt.Sprintf("%d/%d done", done, len(issues)),
	}
	if is, ok := m.store.Snapshot().Focused(); ok {
		parts = append(parts, is.AgentLabel()+" "+is.PriorityLabel())
	}
	return styles.StatusBarStyle.Width(m.width).Render(strings.Join(parts, " · "))
}

// overlayBottom draws overlay over the last lines of background, keeping
// the part of each background line left of the overlay.
func overlayBottom(background, overlay string, width int) string {
	bg := strings.Split(background, "\n")
	ov := strings.Split(overlay, "\n")
	if len(ov) > len(bg) {
		ov = ov[len(ov)-len(bg):]
	}

	offset := len(bg) - len(ov)
	for i, line := range ov {
		trimmed := strings.TrimLeft(line, " ")
		ow := ansi.StringWidth(trimmed)
		left := ansi.Truncate(bg[offset+i], max(width-ow, 0), "")
		if pad := width - ow - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		bg[offset+i] = left + trimmed
	}
	return strings.Join(bg, "\n")
}

package commands

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/internal/tui"
)

// launchReviewTUI runs the review screen until the user quits and prints a
// one-line triage summary afterwards.
func launchReviewTUI(ctx context.Context, w io.Writer, flags *Flags, api tui.API, reviewID, document string) error {
	m, err := tui.New(tui.Options{
		API:          api,
		ReviewID:     reviewID,
		DocumentText: document,
		Config:       flags.Config,
	})
	if err != nil {
		return fmt.Errorf("create review TUI: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}

	if fm, ok := final.(tui.Model); ok {
		printTriage(w, reviewID, fm.Store().Issues())
		fm.Close()
	}
	return nil
}

func printTriage(w io.Writer, reviewID string, issues []review.Issue) {
	if len(issues) == 0 {
		return
	}
	stats := review.ComputeStatistics(issues)
	line := fmt.Sprintf("Review %s: %d issues", reviewID, stats.TotalIssues)
	for _, sc := range stats.StatusCounts {
		line += fmt.Sprintf(", %d %s", sc.Count, sc.Key)
	}
	_, _ = fmt.Fprintln(w, styles.MutedTextStyle.Render(line))
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/internal/reviews"
)

const defaultRenderWidth = 100

type SummaryCmd struct {
	flags  *Flags
	raw    bool
	output string
}

// NewSummaryCmd creates a new summary command.
func NewSummaryCmd(flags *Flags) *SummaryCmd {
	return &SummaryCmd{flags: flags}
}

// Register adds the summary command to the application.
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Export a review summary as markdown",
		UsageText: "revural summary [options] <review-id>",
		Description: `Summary fetches the review summary and renders it as markdown.

The export lists statistics by status and agent, followed by every issue
with its comment and quoted original text.

Examples:
  revural summary 3f2a
  revural summary 3f2a --raw > review.md
  revural summary 3f2a -o review.md`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without terminal rendering",
				Destination: &cmd.raw,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write markdown to a file",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SummaryCmd) run(ctx context.Context, c *cli.Command) error {
	reviewID, err := reviewIDArg(c)
	if err != nil {
		return err
	}

	api, err := cmd.flags.Client()
	if err != nil {
		return err
	}

	summary, err := api.GetReviewSummary(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get summary: %w", err)
	}
	md := reviews.SummaryMarkdown(reviewID, summary)

	w := c.Root().Writer
	switch {
	case cmd.output != "":
		if err := os.WriteFile(cmd.output, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		_, err := fmt.Fprintf(w, "Wrote %s\n", cmd.output)
		return err
	case cmd.raw:
		_, err := fmt.Fprint(w, md)
		return err
	}

	rendered, err := renderMarkdown(md, terminalWidth())
	if err != nil {
		_, err := fmt.Fprint(w, md)
		return err
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, defaultRenderWidth)
	}
	return defaultRenderWidth
}

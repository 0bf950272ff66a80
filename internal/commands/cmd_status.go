package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/zerebom/revural/internal/core/lifecycle"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/session"
	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/pkg/iojson"
)

type StatusCmd struct {
	flags *Flags
	wait  bool
	json  bool
}

// NewStatusCmd creates a new status command.
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the status command to the application.
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Show the status and issues of a review",
		UsageText: "revural status [options] <review-id>",
		Description: `Status fetches a review once and prints its state and issues.

With --wait it polls until the review completes, fails or is not found,
printing progress along the way. Failed and missing reviews exit non-zero.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "wait",
				Aliases:     []string{"w"},
				Usage:       "poll until the review reaches a final state",
				Destination: &cmd.wait,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON (one line per poll round with --wait)",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

type statusOutput struct {
	ReviewID string         `json:"review_id"`
	Status   review.Status  `json:"status"`
	Progress *float64       `json:"progress,omitempty"`
	Phase    string         `json:"phase_message,omitempty"`
	Issues   []review.Issue `json:"issues,omitempty"`
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	reviewID, err := reviewIDArg(c)
	if err != nil {
		return err
	}

	api, err := cmd.flags.Client()
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if !cmd.wait {
		payload, err := api.GetReview(ctx, reviewID)
		if err != nil {
			return fmt.Errorf("get review: %w", err)
		}
		out := statusOutput{
			ReviewID: reviewID,
			Status:   payload.Status,
			Progress: payload.Progress,
			Phase:    payload.PhaseMessage,
			Issues:   payload.Issues,
		}
		if cmd.json {
			return iojson.Write(w, out)
		}
		printStatus(w, out, cmd.flags.Config.TUI.PreviewLimit)
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	store := session.New()
	poller := lifecycle.New(api, store, lifecycle.WithInterval(cmd.flags.Config.Polling.Interval))

	runErr := poller.Run(ctx, reviewID, func(o lifecycle.Outcome) {
		if o.Stale || o.FetchErr != nil {
			return
		}
		out := statusOutput{ReviewID: reviewID, Status: o.State, Progress: o.Progress.Value, Phase: o.Progress.Phase}
		if o.Terminal() {
			out.Issues = store.Issues()
		}
		if cmd.json {
			_ = iojson.WriteLine(w, out)
			return
		}
		if o.Continue {
			printProgress(w, o.Progress)
			return
		}
		printStatus(w, out, cmd.flags.Config.TUI.PreviewLimit)
	})
	if runErr != nil && cmd.json {
		_ = iojson.WriteError(w, reviewID, runErr)
	}
	return runErr
}

func printProgress(w io.Writer, p lifecycle.Progress) {
	line := "processing"
	if p.Value != nil {
		line += fmt.Sprintf(" %3.0f%%", *p.Value*100)
	}
	if len(p.ExpectedAgents) > 0 {
		line += fmt.Sprintf(" (%d/%d agents)", len(p.CompletedAgents), len(p.ExpectedAgents))
	}
	if p.Phase != "" {
		line += " " + p.Phase
	}
	_, _ = fmt.Fprintln(w, styles.MutedTextStyle.Render(line))
}

func printStatus(w io.Writer, out statusOutput, previewLimit int) {
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(fmt.Sprintf("Review %s: %s", out.ReviewID, out.Status)))

	switch out.Status {
	case review.StatusProcessing:
		printProgress(w, lifecycle.Progress{Value: out.Progress, Phase: out.Phase})
		return
	case review.StatusFailed:
		_, _ = fmt.Fprintln(w, styles.ErrorTextStyle.Render("The review failed on the backend."))
		return
	case review.StatusNotFound:
		_, _ = fmt.Fprintln(w, styles.ErrorTextStyle.Render("No review with this id exists."))
		return
	}

	if len(out.Issues) == 0 {
		_, _ = fmt.Fprintln(w, "No issues were reported.")
		return
	}
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render("──────────────────────────────────────"))
	for _, is := range out.Issues {
		headline := is.Headline()
		if headline == "" {
			headline = is.OriginalText
		}
		_, _ = fmt.Fprintf(w, "%s %s %-20s %s\n",
			styles.StatusIcon(is.Status),
			styles.PriorityStyle(is.Priority).Render(is.PriorityLabel()),
			is.AgentLabel(),
			review.ShortenText(headline, previewLimit),
		)
	}
}

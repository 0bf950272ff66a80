package commands

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zerebom/revural/internal/core/validate"
	"github.com/zerebom/revural/pkg/docinput"
)

type OpenCmd struct {
	flags  *Flags
	reader *docinput.Reader
	file   string
}

// NewOpenCmd creates a new open command.
func NewOpenCmd(flags *Flags) *OpenCmd {
	return &OpenCmd{flags: flags, reader: docinput.New()}
}

// Register adds the open command to the application.
func (cmd *OpenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "open",
		Usage:     "Open the review screen for an existing review",
		UsageText: "revural open [options] <review-id>",
		Description: `Open follows an existing review and shows its issues.

The document text is taken from the backend. Pass --file to use a local
copy instead, for example when the backend does not return it.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "local copy of the reviewed document",
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OpenCmd) run(ctx context.Context, c *cli.Command) error {
	reviewID, err := reviewIDArg(c)
	if err != nil {
		return err
	}

	var doc string
	if cmd.file != "" {
		doc, _, err = cmd.reader.Read(cmd.file)
		if err != nil {
			return err
		}
	}

	api, err := cmd.flags.Client()
	if err != nil {
		return err
	}
	return launchReviewTUI(ctx, c.Root().Writer, cmd.flags, api, reviewID, doc)
}

func reviewIDArg(c *cli.Command) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if err := validate.ReviewID(id); err != nil {
		return "", err
	}
	return id, nil
}

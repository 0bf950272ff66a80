package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/pkg/iojson"
)

var errInvalidConfig = errors.New("configuration is invalid")

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "revural config validate [options]",
				Description: "Validates the configuration file, checking the API URL, poll interval, theme and preset roles.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationIssue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	issues := validationIssues(err)

	w := c.Root().Writer
	if cmd.format == "json" {
		out := struct {
			Valid  bool              `json:"valid"`
			Errors []validationIssue `json:"errors,omitempty"`
		}{Valid: err == nil, Errors: issues}
		if werr := iojson.Write(w, out); werr != nil {
			return werr
		}
	} else {
		outputText(w, cmd.flags.ConfigPath, issues)
	}

	if err != nil {
		return errInvalidConfig
	}
	return nil
}

func validationIssues(err error) []validationIssue {
	if err == nil {
		return nil
	}

	var fields criterio.FieldErrors
	if !errors.As(err, &fields) {
		return []validationIssue{{Message: err.Error()}}
	}

	out := make([]validationIssue, 0, len(fields))
	for _, fe := range fields {
		out = append(out, validationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func outputText(w io.Writer, path string, issues []validationIssue) {
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(w, "%s %s is valid\n", styles.IconCheck, path)
		return
	}

	_, _ = fmt.Fprintln(w, styles.ErrorTextStyle.Render(fmt.Sprintf("%s %d problem(s) in %s", styles.IconError, len(issues), path)))
	for _, is := range issues {
		if is.Field == "" {
			_, _ = fmt.Fprintf(w, "  %s\n", is.Message)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s: %s\n", is.Field, is.Message)
	}
}

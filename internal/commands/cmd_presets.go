package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/pkg/iojson"
)

type PresetsCmd struct {
	flags *Flags
	json  bool
}

// NewPresetsCmd creates a new presets command.
func NewPresetsCmd(flags *Flags) *PresetsCmd {
	return &PresetsCmd{flags: flags}
}

// Register adds the presets command to the application.
func (cmd *PresetsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "presets",
		Usage:     "List reviewer team presets",
		UsageText: "revural presets [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

type presetOutput struct {
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func (cmd *PresetsCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	keys := cfg.PresetKeys()

	out := make([]presetOutput, 0, len(keys))
	for _, k := range keys {
		p, _ := cfg.Preset(k)
		out = append(out, presetOutput{Key: k, Name: p.Name, Roles: p.Roles})
	}

	w := c.Root().Writer
	if cmd.json {
		return iojson.Write(w, out)
	}

	for _, p := range out {
		_, _ = fmt.Fprintf(w, "%s  %s\n", styles.CommandHeaderStyle.Render(p.Key), p.Name)
		_, _ = fmt.Fprintf(w, "  %s\n", styles.MutedTextStyle.Render(strings.Join(p.Roles, ", ")))
	}
	return nil
}

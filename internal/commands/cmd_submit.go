package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/zerebom/revural/internal/core/config"
	"github.com/zerebom/revural/internal/core/logging"
	"github.com/zerebom/revural/internal/core/review"
	"github.com/zerebom/revural/internal/core/styles"
	"github.com/zerebom/revural/pkg/docinput"
)

var errUnknownRole = errors.New("unknown reviewer role")

type SubmitCmd struct {
	flags  *Flags
	reader *docinput.Reader

	preset  string
	roles   []string
	panel   string
	detach  bool
	noInput bool

	// interactive reports whether the form may be shown; replaceable for tests.
	interactive func() bool
}

// NewSubmitCmd creates a new submit command.
func NewSubmitCmd(flags *Flags) *SubmitCmd {
	return &SubmitCmd{
		flags:       flags,
		reader:      docinput.New(),
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// Register adds the submit command to the application.
func (cmd *SubmitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "submit",
		Usage:     "Submit a document for review",
		UsageText: "revural submit [options] [document]",
		Description: `Submit reads a document and starts a multi-agent review.

The reviewer team comes from --role flags, a --preset, or an interactive
form when running in a terminal. Without --detach the review screen opens
and follows the review until it completes.

Examples:
  revural submit prd.md
  revural submit --preset technical_spec design.md
  cat prd.md | revural submit --role engineer --role qa_tester --detach`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
			&cli.StringFlag{
				Name:        "preset",
				Aliases:     []string{"p"},
				Usage:       "team preset key (see 'revural presets')",
				Sources:     cli.EnvVars("REVURAL_PRESET"),
				Destination: &cmd.preset,
			},
			&cli.StringSliceFlag{
				Name:        "role",
				Aliases:     []string{"r"},
				Usage:       "reviewer role (repeatable, overrides --preset)",
				Destination: &cmd.roles,
			},
			&cli.StringFlag{
				Name:        "panel",
				Usage:       "panel type hint passed to the backend",
				Destination: &cmd.panel,
			},
			&cli.BoolFlag{
				Name:        "detach",
				Aliases:     []string{"d"},
				Usage:       "print the review id instead of opening the review screen",
				Destination: &cmd.detach,
			},
			&cli.BoolFlag{
				Name:        "no-input",
				Usage:       "never prompt for a team",
				Destination: &cmd.noInput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SubmitCmd) run(ctx context.Context, c *cli.Command) error {
	doc, source, err := cmd.reader.Read(c.Args().First())
	if err != nil {
		return err
	}

	if cmd.preset == "" && len(cmd.roles) == 0 && !cmd.noInput && source != "stdin" && cmd.interactive() {
		if err := cmd.runForm(doc); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	roles, err := resolveRoles(cmd.flags.Config, cmd.preset, cmd.roles)
	if err != nil {
		return err
	}

	req := review.StartRequest{
		DocumentText:       doc,
		SelectedAgentRoles: roles,
	}
	if p := strings.TrimSpace(cmd.panel); p != "" {
		req.PanelType = &p
	}

	api, err := cmd.flags.Client()
	if err != nil {
		return err
	}

	reviewID, err := api.StartReview(ctx, req)
	if err != nil {
		return fmt.Errorf("start review: %w", err)
	}
	l := logging.ForReview("submit", reviewID)
	l.Info().
		Str("source", source).
		Strs("roles", roles).
		Msg("review started")

	if cmd.detach {
		_, err := fmt.Fprintln(c.Root().Writer, reviewID)
		return err
	}

	return launchReviewTUI(ctx, c.Root().Writer, cmd.flags, api, reviewID, doc)
}

func (cmd *SubmitCmd) runForm(doc string) error {
	fmt.Println(styles.CommandHeaderStyle.Render("Review " + review.DocumentTitle(doc)))
	fmt.Println()

	presetOpts := []huh.Option[string]{huh.NewOption("Backend default", "")}
	for _, key := range cmd.flags.Config.PresetKeys() {
		p, _ := cmd.flags.Config.Preset(key)
		presetOpts = append(presetOpts, huh.NewOption(p.Name, key))
	}

	roleOpts := make([]huh.Option[string], 0, len(config.KnownRoles))
	for _, r := range config.KnownRoles {
		roleOpts = append(roleOpts, huh.NewOption(r, r))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Team preset").
				Description("Reviewer team for this document").
				Options(presetOpts...).
				Value(&cmd.preset),
			huh.NewMultiSelect[string]().
				Title("Roles").
				Description("Pick roles to override the preset (optional)").
				Options(roleOpts...).
				Value(&cmd.roles),
		),
	).Run()
}

// resolveRoles picks the reviewer roles for a submission: explicit roles
// win over the preset, and neither means the backend default (nil).
func resolveRoles(cfg *config.Config, preset string, roles []string) ([]string, error) {
	if len(roles) > 0 {
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			r = strings.TrimSpace(r)
			if !slices.Contains(config.KnownRoles, r) {
				return nil, fmt.Errorf("%w %q (known: %s)", errUnknownRole, r, strings.Join(config.KnownRoles, ", "))
			}
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
		return out, nil
	}

	if preset == "" {
		return nil, nil
	}
	p, ok := cfg.Preset(preset)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(cfg.PresetKeys(), ", "))
	}
	return slices.Clone(p.Roles), nil
}

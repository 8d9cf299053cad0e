package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/commands/doctor"
	"github.com/hay-kot/textsnap/internal/printer"
)

type DoctorCmd struct {
	flags  *Flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your textsnap setup",
		UsageText:   "textsnap doctor [options]",
		Description: "Runs diagnostic checks on configuration, storage, permissions, and external programs.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "delete captures that no history entry refers to",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewStorageCheck(cfg.DataDir, cmd.flags.Store, cfg.History.Key),
		doctor.NewEnvironmentCheck(cfg),
		doctor.NewPermissionsCheck(cmd.flags.Permissions),
		doctor.NewOrphanCheck(cmd.flags.History.List(), cfg.CapturesDir(), cmd.fix),
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(ctx, results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	totals := doctor.Tally(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary doctor.Totals   `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: totals.Healthy(),
		Summary: totals,
		Checks:  results,
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}

	if !totals.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputText(ctx context.Context, results []doctor.Result) error {
	p := printer.Ctx(ctx)

	for _, result := range results {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	totals := doctor.Tally(results)
	p.Printf("Summary: %d passed, %d warnings, %d failed", totals.Passed, totals.Warned, totals.Failed)

	if totals.Fixable > 0 {
		p.Infof("%d issue(s) can be fixed with 'textsnap doctor --fix'", totals.Fixable)
	}

	if !totals.Healthy() {
		return cli.Exit("", 1)
	}

	return nil
}

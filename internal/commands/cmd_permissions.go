package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/printer"
)

type PermissionsCmd struct {
	flags *Flags
}

// NewPermissionsCmd creates a new permissions command
func NewPermissionsCmd(flags *Flags) *PermissionsCmd {
	return &PermissionsCmd{flags: flags}
}

// Register adds the permissions command to the application
func (cmd *PermissionsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "permissions",
		Usage:     "View or change camera and media library access",
		UsageText: "textsnap permissions <command> [camera|media_library]",
		Description: `textsnap asks before using the camera or listing your pictures.
A denied camera is not asked for again; use grant or reset to change it. A
denied media library is asked for again on the next gallery scan.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Aliases:   []string{"list"},
				Usage:     "List permission status",
				UsageText: "textsnap permissions ls",
				Action:    cmd.runList,
			},
			{
				Name:      "grant",
				Usage:     "Allow access",
				UsageText: "textsnap permissions grant <permission>",
				Action:    cmd.setter(capture.StatusGranted),
			},
			{
				Name:      "revoke",
				Usage:     "Deny access",
				UsageText: "textsnap permissions revoke <permission>",
				Action:    cmd.setter(capture.StatusDenied),
			},
			{
				Name:        "reset",
				Usage:       "Forget the decision so textsnap asks again",
				UsageText:   "textsnap permissions reset [permission]",
				Description: "Without an argument every permission is reset.",
				Action:      cmd.runReset,
			},
		},
	})

	return app
}

func (cmd *PermissionsCmd) runList(ctx context.Context, c *cli.Command) error {
	states, err := cmd.flags.Permissions.All(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PERMISSION\tSTATUS\tUPDATED")

	for _, st := range states {
		updated := "-"
		if !st.UpdatedAt.IsZero() {
			updated = st.UpdatedAt.Local().Format("2006-01-02 15:04:05")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", st.Permission, statusLabel(st.Status), updated)
	}

	return w.Flush()
}

func (cmd *PermissionsCmd) setter(status capture.Status) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		perm, err := capture.ParsePermission(c.Args().First())
		if err != nil {
			return err
		}

		if err := cmd.flags.Permissions.Set(ctx, perm, status); err != nil {
			return err
		}

		printer.Ctx(ctx).Successf("%s access %s", perm.Label(), status)
		return nil
	}
}

func (cmd *PermissionsCmd) runReset(ctx context.Context, c *cli.Command) error {
	perms := capture.AllPermissions()
	if c.Args().Present() {
		perm, err := capture.ParsePermission(c.Args().First())
		if err != nil {
			return err
		}
		perms = []capture.Permission{perm}
	}

	for _, perm := range perms {
		if err := cmd.flags.Permissions.Reset(ctx, perm); err != nil {
			return err
		}
		printer.Ctx(ctx).Successf("%s access reset", perm.Label())
	}

	return nil
}

func statusLabel(st capture.Status) string {
	switch st {
	case capture.StatusGranted:
		return printer.ColorGreen + printer.Check + printer.ColorReset + " granted"
	case capture.StatusDenied:
		return printer.StatusFailed("denied")
	default:
		return printer.StatusWarn("not asked")
	}
}

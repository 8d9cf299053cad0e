package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/export"
	"github.com/hay-kot/textsnap/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	yes    bool
	format string
	output string
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	yesFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "skip the confirmation prompt",
			Destination: &cmd.yes,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage recognition history",
		UsageText: "textsnap history <command> [options]",
		Description: `View or manage past recognition results.

History keeps the most recent results, newest first. IDs may be abbreviated
to any unique prefix.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Aliases:   []string{"list"},
				Usage:     "List history entries",
				UsageText: "textsnap history ls",
				Action:    cmd.runList,
			},
			{
				Name:      "show",
				Usage:     "Show the full text of an entry",
				UsageText: "textsnap history show <id>",
				Action:    cmd.runShow,
			},
			{
				Name:      "rm",
				Usage:     "Delete an entry",
				UsageText: "textsnap history rm <id> [--yes]",
				Flags:     []cli.Flag{yesFlag()},
				Action:    cmd.runRemove,
			},
			{
				Name:      "clear",
				Usage:     "Delete all entries",
				UsageText: "textsnap history clear [--yes]",
				Flags:     []cli.Flag{yesFlag()},
				Action:    cmd.runClear,
			},
			{
				Name:      "copy",
				Usage:     "Copy the text of an entry to the clipboard",
				UsageText: "textsnap history copy <id>",
				Action:    cmd.runCopy,
			},
			{
				Name:      "export",
				Usage:     "Export history as JSON or an Excel workbook",
				UsageText: "textsnap history export [--format json|xlsx] [--output <file>]",
				Description: `Writes all entries to --output, or stdout when omitted. The format
defaults to the output file extension, then to json.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Aliases:     []string{"f"},
						Usage:       "output format (json, xlsx)",
						Destination: &cmd.format,
					},
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "output file (default stdout)",
						Destination: &cmd.output,
					},
				},
				Action: cmd.runExport,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	items := cmd.flags.History.List()

	if len(items) == 0 {
		printer.Ctx(ctx).Infof("No recognition history")
		return nil
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tTEXT")

	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n",
			item.ID,
			item.Date.Local().Format("2006-01-02 15:04:05"),
			item.Preview(50),
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runShow(_ context.Context, c *cli.Command) error {
	item, err := cmd.resolve(c.Args().First())
	if err != nil {
		return err
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintf(out, "ID:    %s\n", item.ID)
	_, _ = fmt.Fprintf(out, "Date:  %s\n", item.Date.Local().Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(out, "Image: %s\n\n", item.ImageURI)
	writeResult(out, item.Text, "")

	return nil
}

func (cmd *HistoryCmd) runRemove(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	item, err := cmd.resolve(c.Args().First())
	switch {
	case errors.Is(err, history.ErrNotFound):
		p.Infof("Nothing to delete: no history entry %s", c.Args().First())
		return nil
	case err != nil:
		return err
	}

	ok, err := cmd.confirm(ctx, "Delete this history entry?", item.Preview(60))
	if err != nil || !ok {
		return err
	}

	if _, err := cmd.flags.History.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}

	p.Successf("Deleted %s", item.ID)
	return nil
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	n := len(cmd.flags.History.List())
	if n == 0 {
		p.Infof("No recognition history")
		return nil
	}

	ok, err := cmd.confirm(ctx, "Delete all history?", fmt.Sprintf("%d entries will be removed. This cannot be undone.", n))
	if err != nil || !ok {
		return err
	}

	if err := cmd.flags.History.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	p.Successf("Recognition history cleared")
	return nil
}

func (cmd *HistoryCmd) runCopy(ctx context.Context, c *cli.Command) error {
	item, err := cmd.resolve(c.Args().First())
	if err != nil {
		return err
	}

	if err := clipboard.WriteAll(item.Text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	printer.Ctx(ctx).Successf("Copied %s to clipboard", item.ID)
	return nil
}

func (cmd *HistoryCmd) runExport(ctx context.Context, c *cli.Command) error {
	format := export.FormatFromPath(cmd.output, export.FormatJSON)
	if cmd.format != "" {
		var err error
		if format, err = export.ParseFormat(cmd.format); err != nil {
			return err
		}
	}

	items := cmd.flags.History.List()

	if cmd.output == "" {
		return export.Write(c.Root().Writer, format, items)
	}

	if err := writeFile(cmd.output, func(w io.Writer) error {
		return export.Write(w, format, items)
	}); err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	printer.Ctx(ctx).Successf("Exported %d entries to %s", len(items), cmd.output)
	return nil
}

// resolve finds an item by id or unique id prefix.
func (cmd *HistoryCmd) resolve(id string) (history.Item, error) {
	if id == "" {
		return history.Item{}, fmt.Errorf("missing history entry id")
	}

	if item, err := cmd.flags.History.Get(id); err == nil {
		return item, nil
	}

	var matches []history.Item
	for _, item := range cmd.flags.History.List() {
		if strings.HasPrefix(item.ID, id) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return history.Item{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return history.Item{}, fmt.Errorf("id prefix %q matches %d entries", id, len(matches))
	}
}

// confirm asks before a destructive change unless --yes was passed. A cancelled
// prompt returns false without an error.
func (cmd *HistoryCmd) confirm(ctx context.Context, title, description string) (bool, error) {
	if cmd.yes {
		return true, nil
	}

	ok, err := cmd.flags.Prompter.Confirm(ctx, title, description)
	switch {
	case errors.Is(err, capture.ErrNotInteractive):
		return false, fmt.Errorf("confirmation required: pass --yes in non-interactive sessions")
	case errors.Is(err, capture.ErrCancelled):
		return false, nil
	case err != nil:
		return false, err
	}

	return ok, nil
}

// writeFile writes through a temp file in the target directory and renames it
// into place.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".textsnap-export-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

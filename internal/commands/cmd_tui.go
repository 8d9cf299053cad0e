package commands

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/textsnap/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return nil
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	opts := tui.Options{
		Store:    cmd.flags.History,
		Pipeline: cmd.flags.Pipeline,
		Sources: []tui.ScanSource{
			{Key: "g", Help: "gallery", Source: cmd.flags.GallerySource()},
			{Key: "c", Help: "camera", Source: cmd.flags.CameraSource("")},
			{Key: "f", Help: "file", Source: cmd.flags.FileSource("")},
		},
		Keybindings: cmd.flags.Config.Keybindings,
		CopyText:    clipboard.WriteAll,
		Logger:      cmd.flags.Logger.With().Str("component", "tui").Logger(),
	}

	m := tui.New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// Package prompt implements interactive terminal prompts with huh.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/styles"
)

// Prompter asks questions on the controlling terminal. When stdin or stdout is
// not a terminal every prompt returns capture.ErrNotInteractive.
type Prompter struct {
	interactive bool
}

// New creates a Prompter, detecting whether the process is attached to a
// terminal.
func New() *Prompter {
	return &Prompter{
		interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Interactive reports whether prompts can be shown.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	if !p.interactive {
		return false, capture.ErrNotInteractive
	}

	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if description != "" {
		field = field.Description(description)
	}

	if err := run(ctx, field); err != nil {
		return false, err
	}

	return ok, nil
}

// Select asks the user to choose one of options.
func (p *Prompter) Select(ctx context.Context, title string, options []string) (string, error) {
	if !p.interactive {
		return "", capture.ErrNotInteractive
	}

	var choice string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Height(min(len(options)+2, 15)).
		Value(&choice)

	if err := run(ctx, field); err != nil {
		return "", err
	}

	return choice, nil
}

// PickFile opens a file browser rooted at dir that only offers files with one
// of exts.
func (p *Prompter) PickFile(ctx context.Context, title, dir string, exts []string) (string, error) {
	if !p.interactive {
		return "", capture.ErrNotInteractive
	}

	if dir == "" {
		dir, _ = os.Getwd()
	}

	var path string
	field := huh.NewFilePicker().
		Title(title).
		CurrentDirectory(dir).
		AllowedTypes(exts).
		FileAllowed(true).
		DirAllowed(false).
		Picking(true).
		Height(15).
		Value(&path)

	if err := run(ctx, field); err != nil {
		return "", err
	}

	return path, nil
}

func run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithTheme(styles.FormTheme())

	err := form.RunWithContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return capture.ErrCancelled
	default:
		return err
	}
}

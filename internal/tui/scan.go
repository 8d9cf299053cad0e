package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/textsnap/internal/core/capture"
)

// ScanSource binds a key to an image source.
type ScanSource struct {
	Key    string
	Help   string
	Source capture.Source
}

// acquiredMsg is sent when image acquisition finishes.
type acquiredMsg struct {
	job *capture.Job
	err error
}

// processedMsg is sent when recognition and recording finish.
type processedMsg struct {
	res capture.Result
	err error
}

// acquireExec runs the acquire step of the pipeline while Bubble Tea has
// released the terminal, so pickers and permission prompts can draw.
type acquireExec struct {
	ctx      context.Context
	pipeline *capture.Pipeline
	source   capture.Source
	job      *capture.Job
}

func (a *acquireExec) Run() error {
	job, err := a.pipeline.Start(a.ctx, a.source)
	a.job = job
	return err
}

func (a *acquireExec) SetStdin(io.Reader)  {}
func (a *acquireExec) SetStdout(io.Writer) {}
func (a *acquireExec) SetStderr(io.Writer) {}

// acquire returns a command that suspends the TUI and acquires an image.
func acquire(ctx context.Context, p *capture.Pipeline, src capture.Source) tea.Cmd {
	ex := &acquireExec{ctx: ctx, pipeline: p, source: src}
	return tea.Exec(ex, func(err error) tea.Msg {
		return acquiredMsg{job: ex.job, err: err}
	})
}

// finish returns a command that recognizes the acquired image.
func finish(ctx context.Context, job *capture.Job) tea.Cmd {
	return func() tea.Msg {
		res, err := job.Finish(ctx)
		return processedMsg{res: res, err: err}
	}
}

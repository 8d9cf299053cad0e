package executil

import (
	"context"
	"sync"
)

// RecordedCommand captures a command that was executed.
type RecordedCommand struct {
	Cmd  string
	Args []string
}

// RecordingExecutor captures commands for testing.
// Configure Outputs and Errors maps to control return values.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []RecordedCommand

	// Outputs maps command names to their output.
	Outputs map[string][]byte

	// Errors maps command names to their error.
	Errors map[string]error

	// OnRun, when set, is called for every command before the configured
	// output is returned. A non-nil error replaces the configured one.
	OnRun func(cmd string, args []string) error
}

// Run records the command and returns configured output/error.
func (e *RecordingExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(cmd, args...)
}

// Output records the command and returns configured output/error.
func (e *RecordingExecutor) Output(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.record(cmd, args...)
}

func (e *RecordingExecutor) record(cmd string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Commands = append(e.Commands, RecordedCommand{Cmd: cmd, Args: args})

	var (
		out []byte
		err error
	)

	if e.Outputs != nil {
		out = e.Outputs[cmd]
	}
	if e.Errors != nil {
		err = e.Errors[cmd]
	}
	if e.OnRun != nil {
		if hookErr := e.OnRun(cmd, args); hookErr != nil {
			err = hookErr
		}
	}

	return out, err
}

// Recorded returns a copy of the recorded commands.
func (e *RecordingExecutor) Recorded() []RecordedCommand {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]RecordedCommand, len(e.Commands))
	copy(out, e.Commands)
	return out
}

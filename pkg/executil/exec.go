// Package executil runs external programs such as camera capture tools and
// text-recognition engines.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// Output executes a command and returns stdout only. Stderr is folded into
	// the returned error when the command fails.
	Output(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual programs.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// Output executes a command and returns stdout.
func (e *RealExecutor) Output(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	c := exec.CommandContext(ctx, cmd, args...)
	c.Stderr = &stderr

	out, err := c.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("exec %s: %w: %s", cmd, err, msg)
		}
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/pkg/executil"
	"github.com/hay-kot/textsnap/pkg/tmpl"
)

// CameraOptions configures a Camera source.
type CameraOptions struct {
	// Command is a template run with `sh -c` that writes one frame to
	// {{ .Output }}.
	Command     string
	Device      string
	AspectRatio float64
	JPEGQuality int
	// OutputDir receives the cropped frame.
	OutputDir string
	// Frame uses an existing image instead of running Command.
	Frame string

	Permissions *Permissions
	Exec        executil.Executor
	Logger      zerolog.Logger
}

// Camera captures a frame with an external program, crops it to a fixed
// aspect ratio and re-encodes it as JPEG.
type Camera struct {
	opts CameraOptions
	log  zerolog.Logger
}

// NewCamera creates a camera source.
func NewCamera(opts CameraOptions) *Camera {
	return &Camera{opts: opts, log: opts.Logger}
}

func (c *Camera) Name() string { return SourceCamera }

// Acquire returns the path of the cropped JPEG. Any failure after permission is
// granted wraps ErrCaptureFailed and leaves no files behind.
func (c *Camera) Acquire(ctx context.Context) (string, error) {
	if err := c.opts.Permissions.Ensure(ctx, PermissionCamera); err != nil {
		return "", err
	}

	frame := c.opts.Frame
	if frame == "" {
		raw, err := c.captureFrame(ctx)
		if err != nil {
			return "", err
		}
		defer func() { _ = os.Remove(raw) }()
		frame = raw
	}

	out, err := CropToAspect(frame, c.opts.OutputDir, c.opts.AspectRatio, c.opts.JPEGQuality)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	c.log.Debug().Str("frame", frame).Str("output", out).Msg("camera frame cropped")

	return out, nil
}

// Discard removes a cropped frame written by Acquire. Paths outside OutputDir
// are left alone.
func (c *Camera) Discard(uri string) error {
	if filepath.Dir(filepath.Clean(uri)) != filepath.Clean(c.opts.OutputDir) {
		return nil
	}
	if err := os.Remove(uri); err != nil && !os.IsNotExist(err) {
		return err
	}
	c.log.Debug().Str("output", uri).Msg("camera frame discarded")
	return nil
}

func (c *Camera) captureFrame(ctx context.Context) (string, error) {
	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrCaptureFailed, c.opts.OutputDir, err)
	}

	f, err := os.CreateTemp(c.opts.OutputDir, "frame-*.jpg")
	if err != nil {
		return "", fmt.Errorf("%w: create frame: %w", ErrCaptureFailed, err)
	}
	raw := f.Name()
	_ = f.Close()

	cmd, err := tmpl.Render(c.opts.Command, config.CameraTemplateData{
		Output: raw,
		Device: c.opts.Device,
	})
	if err != nil {
		_ = os.Remove(raw)
		return "", fmt.Errorf("%w: camera command: %w", ErrCaptureFailed, err)
	}

	c.log.Debug().Str("cmd", cmd).Msg("capturing frame")

	if out, err := c.opts.Exec.Run(ctx, "sh", "-c", cmd); err != nil {
		_ = os.Remove(raw)
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ErrCancelled
		}
		c.log.Debug().Bytes("output", out).Msg("camera command failed")
		return "", fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	if info, err := os.Stat(raw); err != nil || info.Size() == 0 {
		_ = os.Remove(raw)
		return "", fmt.Errorf("%w: camera command produced no image", ErrCaptureFailed)
	}

	return raw, nil
}

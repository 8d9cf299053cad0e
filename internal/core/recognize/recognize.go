// Package recognize turns an image reference into text.
package recognize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/pkg/executil"
)

// ErrRecognitionFailed is returned when the backend cannot produce text.
var ErrRecognitionFailed = errors.New("recognition failed")

// Recognizer extracts text from the image referenced by imageURI.
type Recognizer interface {
	Recognize(ctx context.Context, imageURI string) (string, error)
}

// New returns the backend selected by cfg.
func New(cfg config.RecognizerConfig, exec executil.Executor, log zerolog.Logger) (Recognizer, error) {
	switch cfg.Backend {
	case config.BackendMock, "":
		return NewMock(cfg.Latency, log), nil
	case config.BackendTesseract:
		return NewTesseract(cfg.TesseractPath, cfg.Language, exec, log), nil
	default:
		return nil, fmt.Errorf("unknown recognizer backend %q", cfg.Backend)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

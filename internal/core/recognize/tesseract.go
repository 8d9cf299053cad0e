package recognize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/pkg/executil"
)

// Tesseract runs the tesseract CLI against a local image file.
type Tesseract struct {
	path     string
	language string
	exec     executil.Executor
	log      zerolog.Logger
}

// NewTesseract creates a recognizer that shells out to the tesseract binary.
func NewTesseract(path, language string, exec executil.Executor, log zerolog.Logger) *Tesseract {
	return &Tesseract{path: path, language: language, exec: exec, log: log}
}

func (t *Tesseract) Recognize(ctx context.Context, imageURI string) (string, error) {
	file := strings.TrimPrefix(imageURI, "file://")

	out, err := t.exec.Output(ctx, t.path, file, "stdout", "-l", t.language)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", fmt.Errorf("%w: no text found in %s", ErrRecognitionFailed, file)
	}

	t.log.Debug().Str("file", file).Int("bytes", len(text)).Msg("tesseract recognized text")

	return text, nil
}

package recognize

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"
)

// mockNameLimit is the number of file name graphemes echoed by Mock.
const mockNameLimit = 30

// Mock is a stand-in backend that waits a fixed latency and echoes the image
// file name.
type Mock struct {
	latency time.Duration
	log     zerolog.Logger
}

// NewMock creates a mock recognizer with the given artificial latency.
func NewMock(latency time.Duration, log zerolog.Logger) *Mock {
	return &Mock{latency: latency, log: log}
}

func (m *Mock) Recognize(ctx context.Context, imageURI string) (string, error) {
	m.log.Debug().Str("uri", imageURI).Dur("latency", m.latency).Msg("mock recognition")

	if err := sleep(ctx, m.latency); err != nil {
		return "", err
	}

	name := path.Base(strings.TrimPrefix(imageURI, "file://"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}

	return fmt.Sprintf("Recognized: %s... (mock OCR result)", firstGraphemes(name, mockNameLimit)), nil
}

// firstGraphemes returns at most n grapheme clusters of s.
func firstGraphemes(s string, n int) string {
	var (
		b     strings.Builder
		count int
		g     = uniseg.NewGraphemes(s)
	)
	for count < n && g.Next() {
		b.WriteString(g.Str())
		count++
	}
	return b.String()
}

package recognize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/pkg/executil"
)

func TestMock_Recognize(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "plain path",
			uri:  "/tmp/receipt.jpg",
			want: "Recognized: receipt.jpg... (mock OCR result)",
		},
		{
			name: "file uri",
			uri:  "file:///home/user/Pictures/scan.png",
			want: "Recognized: scan.png... (mock OCR result)",
		},
		{
			name: "long name is cut to 30 graphemes",
			uri:  "/tmp/" + strings.Repeat("a", 40) + ".jpg",
			want: "Recognized: " + strings.Repeat("a", 30) + "... (mock OCR result)",
		},
		{
			name: "multibyte name",
			uri:  "/tmp/Монгол бичиг.jpg",
			want: "Recognized: Монгол бичиг.jpg... (mock OCR result)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock(0, zerolog.Nop())
			got, err := m.Recognize(context.Background(), tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMock_WaitsLatency(t *testing.T) {
	m := NewMock(20*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, err := m.Recognize(context.Background(), "/tmp/a.jpg")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestMock_CancelledWhileWaiting(t *testing.T) {
	m := NewMock(time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Recognize(ctx, "/tmp/a.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTesseract_Recognize(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"tesseract": []byte("  hello world\n\n")},
	}
	r := NewTesseract("tesseract", "mon", exec, zerolog.Nop())

	got, err := r.Recognize(context.Background(), "file:///tmp/scan.jpg")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "tesseract", cmds[0].Cmd)
	assert.Equal(t, []string{"/tmp/scan.jpg", "stdout", "-l", "mon"}, cmds[0].Args)
}

func TestTesseract_Failures(t *testing.T) {
	tests := []struct {
		name   string
		output []byte
		err    error
	}{
		{name: "exec error", err: errors.New("exit status 1")},
		{name: "empty output", output: []byte(" \n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &executil.RecordingExecutor{
				Outputs: map[string][]byte{"tesseract": tt.output},
				Errors:  map[string]error{"tesseract": tt.err},
			}
			r := NewTesseract("tesseract", "eng", exec, zerolog.Nop())

			_, err := r.Recognize(context.Background(), "/tmp/scan.jpg")
			assert.ErrorIs(t, err, ErrRecognitionFailed)
		})
	}
}

func TestNew(t *testing.T) {
	exec := &executil.RecordingExecutor{}

	r, err := New(config.RecognizerConfig{Backend: config.BackendMock}, exec, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Mock{}, r)

	r, err = New(config.RecognizerConfig{Backend: config.BackendTesseract, TesseractPath: "tesseract"}, exec, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, r)

	_, err = New(config.RecognizerConfig{Backend: "cloud"}, exec, zerolog.Nop())
	assert.Error(t, err)
}

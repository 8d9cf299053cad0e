package capture

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/textsnap/internal/core/kv"
)

// memKV implements kv.Store in memory for testing.
type memKV struct {
	mu      sync.Mutex
	entries map[string]kv.Entry
}

func newMemKV() *memKV {
	return &memKV{entries: make(map[string]kv.Entry)}
}

func (m *memKV) Get(_ context.Context, key string) (kv.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return kv.Entry{}, kv.ErrKeyNotFound
	}
	return e, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = kv.Entry{Key: key, Value: value}
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return kv.ErrKeyNotFound
	}
	delete(m.entries, key)
	return nil
}

func (m *memKV) List(_ context.Context, _ string) ([]kv.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]kv.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

// fakePrompter answers Confirm with a fixed result and counts calls.
type fakePrompter struct {
	answer bool
	err    error
	calls  int
}

func (f *fakePrompter) Confirm(_ context.Context, _, _ string) (bool, error) {
	f.calls++
	return f.answer, f.err
}

// fakeSelector returns choose(options) or err.
type fakeSelector struct {
	choose  func(options []string) string
	err     error
	options []string
}

func (f *fakeSelector) Select(_ context.Context, _ string, options []string) (string, error) {
	f.options = options
	if f.err != nil {
		return "", f.err
	}
	return f.choose(options), nil
}

// fakeFilePicker returns a fixed path or err.
type fakeFilePicker struct {
	path string
	err  error
}

func (f *fakeFilePicker) PickFile(_ context.Context, _, _ string, _ []string) (string, error) {
	return f.path, f.err
}

// writePNG writes a solid w x h PNG to path.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, png.Encode(f, img))
}

func grantedPermissions(t *testing.T) *Permissions {
	t.Helper()
	return NewPermissions(newMemKV(), &fakePrompter{answer: true}, zerolog.Nop())
}

package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/store/jsonfile"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)
	cfg.Capture.CameraCommand = "sh -c {{ .Output | shq }}"
	cfg.Capture.GalleryDir = t.TempDir()
	return cfg
}

func statuses(r Result) []Status {
	out := make([]Status, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, item.Status)
	}
	return out
}

func TestRunAll_ConfigMissing(t *testing.T) {
	results := RunAll(context.Background(), []Check{NewConfigCheck(nil, "")})

	require.Len(t, results, 1)
	require.Len(t, results[0].Items, 1)
	assert.Equal(t, StatusFail, results[0].Items[0].Status)
}

func TestTally(t *testing.T) {
	results := []Result{
		{Items: []CheckItem{{Status: StatusPass}, {Status: StatusWarn, Fixable: true}}},
		{Items: []CheckItem{{Status: StatusFail}, {Status: StatusPass, Fixable: true}}},
	}

	totals := Tally(results)
	assert.Equal(t, Totals{Passed: 2, Warned: 1, Failed: 1, Fixable: 1}, totals)
	assert.False(t, totals.Healthy())
	assert.True(t, Tally(results[:0]).Healthy())
}

func TestRunAll_UnreadableHistoryKeepsCaptures(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	capturesDir := filepath.Join(dataDir, "captures")
	frame := filepath.Join(capturesDir, "capture-1.jpg")
	require.NoError(t, os.MkdirAll(capturesDir, 0o755))
	require.NoError(t, os.WriteFile(frame, []byte("x"), 0o644))

	store := jsonfile.NewKVStore(filepath.Join(dataDir, "storage.json"))
	require.NoError(t, store.Set(ctx, history.DefaultKey, "{not json"))

	results := RunAll(ctx, []Check{
		NewStorageCheck(dataDir, store, history.DefaultKey),
		NewOrphanCheck(nil, capturesDir, true),
	})

	require.Len(t, results, 2)
	orphans := results[1]
	require.Len(t, orphans.Items, 1)
	assert.Equal(t, StatusWarn, orphans.Items[0].Status)
	assert.False(t, orphans.Items[0].Fixable)
	assert.Contains(t, orphans.Items[0].Detail, "history record is unreadable")

	_, err := os.Stat(frame)
	assert.NoError(t, err, "capture must survive --fix")
}

func TestConfigCheck(t *testing.T) {
	cfg := testConfig(t)

	result := NewConfigCheck(cfg, filepath.Join(t.TempDir(), "missing.yaml")).Run(context.Background())
	assert.Equal(t, "Configuration", result.Name)
	assert.Equal(t, []Status{StatusPass, StatusPass}, statuses(result))
	assert.Equal(t, "not found, using defaults", result.Items[0].Detail)

	cfg.Capture.CameraCommand = "imagesnap {{ .Output"
	result = NewConfigCheck(cfg, "").Run(context.Background())
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Equal(t, "capture.camera_command", result.Items[1].Label)
}

func TestStorageCheck(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := jsonfile.NewKVStore(filepath.Join(dir, "storage.json"))

	result := NewStorageCheck(dir, store, history.DefaultKey).Run(ctx)
	assert.Equal(t, []Status{StatusPass, StatusPass}, statuses(result))
	assert.Equal(t, "empty", result.Items[1].Detail)

	require.NoError(t, store.Set(ctx, history.DefaultKey, `[{"id":"1","imageUri":"/a.jpg","text":"a","date":"2024-01-01T00:00:00Z"}]`))
	result = NewStorageCheck(dir, store, history.DefaultKey).Run(ctx)
	assert.Equal(t, "1 entries", result.Items[1].Detail)

	require.NoError(t, store.Set(ctx, history.DefaultKey, "{broken"))
	result = NewStorageCheck(dir, store, history.DefaultKey).Run(ctx)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
}

func TestStorageCheck_DataDirIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "storage.json"))

	result := NewStorageCheck(file, store, history.DefaultKey).Run(context.Background())
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestEnvironmentCheck(t *testing.T) {
	cfg := testConfig(t)
	cfg.Recognizer.Backend = config.BackendTesseract
	cfg.Recognizer.TesseractPath = "definitely-not-a-real-tesseract-binary"

	check := NewEnvironmentCheck(cfg)
	check.clipboardUnsupported = true
	result := check.Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, "Recognizer (tesseract_path)", result.Items[0].Label)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Equal(t, "Clipboard", result.Items[2].Label)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
}

func TestPermissionsCheck(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "storage.json"))
	perms := capture.NewPermissions(store, nil, zerolog.Nop())
	require.NoError(t, perms.Set(ctx, capture.PermissionCamera, capture.StatusDenied))

	result := NewPermissionsCheck(perms).Run(ctx)

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "permissions grant camera")
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "asked on first use", result.Items[1].Detail)
}

func TestPermissionsCheck_MediaLibraryDenialIsNotAWarning(t *testing.T) {
	ctx := context.Background()
	store := jsonfile.NewKVStore(filepath.Join(t.TempDir(), "storage.json"))
	perms := capture.NewPermissions(store, nil, zerolog.Nop())
	require.NoError(t, perms.Set(ctx, capture.PermissionMediaLibrary, capture.StatusDenied))

	result := NewPermissionsCheck(perms).Run(ctx)

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "denied, asked again on next use", result.Items[1].Detail)
}

func TestOrphanCheck_NoCapturesDir(t *testing.T) {
	result := NewOrphanCheck(nil, filepath.Join(t.TempDir(), "captures"), false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "Captures directory", result.Items[0].Label)
}

func TestOrphanCheck_ReportsAndFixes(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "capture-1.jpg")
	orphan := filepath.Join(dir, "capture-2.jpg")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(orphan, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	items := []history.Item{{ID: "1", ImageURI: "file://" + kept, Text: "t", Date: time.Now()}}

	result := NewOrphanCheck(items, dir, false).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, "capture-2.jpg", result.Items[0].Label)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)

	result = NewOrphanCheck(items, dir, true).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "deleted")

	_, err := os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(kept)
	assert.NoError(t, err)
}

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, nil)
	return &cfg
}

func requireFieldErrors(t *testing.T, err error) criterio.FieldErrors {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	return fieldErrs
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
		msg    string
	}{
		{
			name:   "empty data dir",
			mutate: func(c *Config) { c.DataDir = "" },
			field:  "data_dir",
			msg:    "cannot be empty",
		},
		{
			name:   "empty history key",
			mutate: func(c *Config) { c.History.Key = "" },
			field:  "history.key",
			msg:    "cannot be empty",
		},
		{
			name:   "zero capacity",
			mutate: func(c *Config) { c.History.MaxItems = 0 },
			field:  "history.max_items",
			msg:    "at least 1",
		},
		{
			name:   "negative aspect ratio",
			mutate: func(c *Config) { c.Capture.AspectRatio = -1 },
			field:  "capture.aspect_ratio",
			msg:    "greater than 0",
		},
		{
			name:   "jpeg quality too high",
			mutate: func(c *Config) { c.Capture.JPEGQuality = 101 },
			field:  "capture.jpeg_quality",
			msg:    "between 1 and 100",
		},
		{
			name:   "bad glob",
			mutate: func(c *Config) { c.Capture.ImagePatterns = []string{"[unterminated"} },
			field:  "capture.image_patterns[0]",
			msg:    "invalid glob",
		},
		{
			name:   "extension without dot",
			mutate: func(c *Config) { c.Capture.FileTypes = []string{"png"} },
			field:  "capture.file_types[0]",
			msg:    "must start with a dot",
		},
		{
			name:   "unknown backend",
			mutate: func(c *Config) { c.Recognizer.Backend = "cloud" },
			field:  "recognizer.backend",
			msg:    "unknown backend",
		},
		{
			name:   "negative latency",
			mutate: func(c *Config) { c.Recognizer.Latency = -time.Second },
			field:  "recognizer.latency",
			msg:    "cannot be negative",
		},
		{
			name:   "keybinding without action",
			mutate: func(c *Config) { c.Keybindings = map[string]Keybinding{"x": {Help: "nothing"}} },
			field:  "keybindings.x",
			msg:    "action is required",
		},
		{
			name:   "keybinding with invalid action",
			mutate: func(c *Config) { c.Keybindings = map[string]Keybinding{"x": {Action: "recycle"}} },
			field:  "keybindings.x",
			msg:    "invalid action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			fieldErrs := requireFieldErrors(t, cfg.Validate())
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.msg)
		})
	}
}

func TestValidateDeep_InvalidCameraTemplate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Capture.CameraCommand = "imagesnap {{ .Frame }}"

	fieldErrs := requireFieldErrors(t, cfg.ValidateDeep(""))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "capture.camera_command", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "template error")
}

func TestValidateDeep_IncludesStructuralErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Capture.JPEGQuality = 0
	cfg.Capture.CameraCommand = "imagesnap {{ .Output }"

	fieldErrs := requireFieldErrors(t, cfg.ValidateDeep(""))
	assert.Len(t, fieldErrs, 2)
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	fieldErrs := requireFieldErrors(t, cfg.ValidateDeep(t.TempDir()))
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config", fieldErrs[0].Field)
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.DataDir = file

	fieldErrs := requireFieldErrors(t, cfg.ValidateDeep(""))
	require.Len(t, fieldErrs, 1)
	assert.Contains(t, fieldErrs[0].Err.Error(), "not a directory")
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	cfg.Recognizer.Backend = BackendTesseract
	cfg.Recognizer.TesseractPath = "definitely-not-a-real-tesseract-binary"
	cfg.Capture.CameraCommand = "definitely-not-a-camera {{ .Output | shq }}"
	cfg.Capture.GalleryDir = filepath.Join(t.TempDir(), "missing")

	warnings := cfg.Warnings()

	items := make([]string, 0, len(warnings))
	for _, w := range warnings {
		items = append(items, w.Item)
	}
	assert.ElementsMatch(t, []string{"tesseract_path", "camera_command", "gallery_dir"}, items)
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "textsnap_history_v1", cfg.History.Key)
	assert.Equal(t, 15, cfg.History.MaxItems)
	assert.InDelta(t, 1/math.Sqrt2, cfg.Capture.AspectRatio, 1e-12)
	assert.Equal(t, 80, cfg.Capture.JPEGQuality)
	assert.Equal(t, BackendMock, cfg.Recognizer.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.Recognizer.Latency)
	assert.Equal(t, ActionDelete, cfg.Keybindings["d"].Action)
	assert.Equal(t, filepath.Join(dataDir, "storage.json"), cfg.StorageFile())
	assert.Equal(t, filepath.Join(dataDir, "captures"), cfg.CapturesDir())
}

func TestLoad_FileOverridesAndMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
history:
  max_items: 5
capture:
  aspect_ratio: 1.5
  gallery_dir: /tmp/pics
recognizer:
  backend: tesseract
  latency: 250ms
  language: mon
keybindings:
  x:
    action: delete
    help: remove
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.History.MaxItems)
	assert.Equal(t, "textsnap_history_v1", cfg.History.Key)
	assert.InDelta(t, 1.5, cfg.Capture.AspectRatio, 1e-12)
	assert.Equal(t, "/tmp/pics", cfg.Capture.GalleryDir)
	assert.Equal(t, 80, cfg.Capture.JPEGQuality)
	assert.Equal(t, BackendTesseract, cfg.Recognizer.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Recognizer.Latency)
	assert.Equal(t, "mon", cfg.Recognizer.Language)
	assert.Equal(t, "tesseract", cfg.Recognizer.TesseractPath)

	assert.Equal(t, ActionDelete, cfg.Keybindings["x"].Action)
	assert.Equal(t, ActionDelete, cfg.Keybindings["d"].Action, "defaults are kept")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capture:\n  jpeg_quality: 500\n"), 0o644))

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
	requireFieldErrors(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history: [unclosed"), 0o644))

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

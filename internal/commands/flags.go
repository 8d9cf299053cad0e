package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/core/kv"
	"github.com/hay-kot/textsnap/internal/prompt"
	"github.com/hay-kot/textsnap/pkg/executil"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
	// ConfigErr holds the load error for commands that report it themselves.
	ConfigErr error

	// Services wired in the Before hook.
	Store       kv.Store
	History     *history.Store
	Permissions *capture.Permissions
	Prompter    *prompt.Prompter
	Pipeline    *capture.Pipeline
	Exec        executil.Executor
	Logger      zerolog.Logger
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "textsnap", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "textsnap")
}

// GallerySource builds the gallery image source from config.
func (f *Flags) GallerySource() *capture.Gallery {
	return capture.NewGallery(capture.GalleryOptions{
		Dir:         f.Config.Capture.GalleryDir,
		Patterns:    f.Config.Capture.ImagePatterns,
		Permissions: f.Permissions,
		Selector:    f.Prompter,
		Logger:      f.Logger.With().Str("source", capture.SourceGallery).Logger(),
	})
}

// CameraSource builds the camera source. A non-empty frame is used in place of
// running the camera command.
func (f *Flags) CameraSource(frame string) *capture.Camera {
	c := f.Config.Capture
	return capture.NewCamera(capture.CameraOptions{
		Command:     c.CameraCommand,
		Device:      c.CameraDevice,
		AspectRatio: c.AspectRatio,
		JPEGQuality: c.JPEGQuality,
		OutputDir:   f.Config.CapturesDir(),
		Frame:       frame,
		Permissions: f.Permissions,
		Exec:        f.Exec,
		Logger:      f.Logger.With().Str("source", capture.SourceCamera).Logger(),
	})
}

// FileSource builds the file source. A non-empty path skips the picker.
func (f *Flags) FileSource(path string) *capture.File {
	dir, _ := os.Getwd()
	return capture.NewFile(capture.FileOptions{
		Path:   path,
		Dir:    dir,
		Types:  f.Config.Capture.FileTypes,
		Picker: f.Prompter,
		Logger: f.Logger.With().Str("source", capture.SourceFile).Logger(),
	})
}

// Package config handles configuration loading and validation for textsnap.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in action names for keybindings.
const (
	ActionDelete = "delete"
	ActionClear  = "clear"
	ActionCopy   = "copy"
)

// Recognizer backends.
const (
	BackendMock      = "mock"
	BackendTesseract = "tesseract"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"d": {
		Action:  ActionDelete,
		Help:    "delete",
		Confirm: "Delete this history entry?",
	},
	"C": {
		Action:  ActionClear,
		Help:    "clear all",
		Confirm: "Delete all history? This cannot be undone.",
	},
	"y": {
		Action: ActionCopy,
		Help:   "copy text",
	},
}

// Config holds the application configuration.
type Config struct {
	History     HistoryConfig         `yaml:"history"`
	Capture     CaptureConfig         `yaml:"capture"`
	Recognizer  RecognizerConfig      `yaml:"recognizer"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// HistoryConfig controls the local result history.
type HistoryConfig struct {
	// Key is the storage key of the serialized list. Changing it starts a
	// fresh history.
	Key      string `yaml:"key"`
	MaxItems int    `yaml:"max_items"`
}

// CaptureConfig controls image acquisition.
type CaptureConfig struct {
	// AspectRatio is the width/height ratio camera frames are cropped to.
	AspectRatio float64 `yaml:"aspect_ratio"`
	// JPEGQuality is the re-encode quality for cropped frames (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`
	// CameraCommand captures one frame. Rendered with {{ .Output }} and {{ .Device }}.
	CameraCommand string `yaml:"camera_command"`
	CameraDevice  string `yaml:"camera_device"`
	// GalleryDir is the directory browsed by the gallery source.
	GalleryDir string `yaml:"gallery_dir"`
	// ImagePatterns are doublestar globs, relative to GalleryDir.
	ImagePatterns []string `yaml:"image_patterns"`
	// FileTypes are the extensions accepted by the file picker.
	FileTypes []string `yaml:"file_types"`
}

// RecognizerConfig selects the text-recognition backend.
type RecognizerConfig struct {
	Backend       string        `yaml:"backend"`
	Latency       time.Duration `yaml:"latency"`
	TesseractPath string        `yaml:"tesseract_path"`
	Language      string        `yaml:"language"`
}

// Keybinding defines a TUI keybinding action.
type Keybinding struct {
	Action  string `yaml:"action"`  // built-in action name (delete, clear, copy)
	Help    string `yaml:"help"`    // help text shown in TUI
	Confirm string `yaml:"confirm"` // confirmation prompt (empty = no confirm)
}

// CameraTemplateData defines available fields for the camera command template.
type CameraTemplateData struct {
	Output string
	Device string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		History: HistoryConfig{
			Key:      "textsnap_history_v1",
			MaxItems: 15,
		},
		Capture: CaptureConfig{
			AspectRatio:   1 / math.Sqrt2,
			JPEGQuality:   80,
			CameraCommand: defaultCameraCommand(),
			CameraDevice:  "/dev/video0",
			GalleryDir:    filepath.Join(home, "Pictures"),
			ImagePatterns: []string{"**/*.{jpg,jpeg,png,gif,webp,bmp,tif,tiff}"},
			FileTypes:     []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"},
		},
		Recognizer: RecognizerConfig{
			Backend:       BackendMock,
			Latency:       1500 * time.Millisecond,
			TesseractPath: "tesseract",
			Language:      "eng",
		},
		Keybindings: map[string]Keybinding{},
	}
}

func defaultCameraCommand() string {
	if runtime.GOOS == "darwin" {
		return "imagesnap -q {{ .Output | shq }}"
	}
	return "fswebcam -q -d {{ .Device | shq }} --no-banner -r 1920x1080 {{ .Output | shq }}"
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.History.Key == "" {
		c.History.Key = defaults.History.Key
	}
	if c.History.MaxItems == 0 {
		c.History.MaxItems = defaults.History.MaxItems
	}
	if c.Capture.AspectRatio == 0 {
		c.Capture.AspectRatio = defaults.Capture.AspectRatio
	}
	if c.Capture.JPEGQuality == 0 {
		c.Capture.JPEGQuality = defaults.Capture.JPEGQuality
	}
	if c.Capture.CameraCommand == "" {
		c.Capture.CameraCommand = defaults.Capture.CameraCommand
	}
	if len(c.Capture.ImagePatterns) == 0 {
		c.Capture.ImagePatterns = defaults.Capture.ImagePatterns
	}
	if len(c.Capture.FileTypes) == 0 {
		c.Capture.FileTypes = defaults.Capture.FileTypes
	}
	if c.Recognizer.Backend == "" {
		c.Recognizer.Backend = defaults.Recognizer.Backend
	}
	if c.Recognizer.TesseractPath == "" {
		c.Recognizer.TesseractPath = defaults.Recognizer.TesseractPath
	}
	if c.Recognizer.Language == "" {
		c.Recognizer.Language = defaults.Recognizer.Language
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}

	return result
}

// StorageFile returns the path to the device-local key-value storage file.
func (c *Config) StorageFile() string {
	return filepath.Join(c.DataDir, "storage.json")
}

// CapturesDir returns the directory that holds captured and cropped frames.
func (c *Config) CapturesDir() string {
	return filepath.Join(c.DataDir, "captures")
}

func isValidAction(action string) bool {
	switch action {
	case ActionDelete, ActionClear, ActionCopy:
		return true
	default:
		return false
	}
}

func isValidBackend(backend string) bool {
	switch backend {
	case BackendMock, BackendTesseract:
		return true
	default:
		return false
	}
}

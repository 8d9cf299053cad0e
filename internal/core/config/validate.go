package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/textsnap/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid. It is run on
// every load; failures are criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.History.Key == "" {
		errs = errs.Append("history.key", fmt.Errorf("cannot be empty"))
	}
	if c.History.MaxItems < 1 {
		errs = errs.Append("history.max_items", fmt.Errorf("must be at least 1"))
	}

	if c.Capture.AspectRatio <= 0 {
		errs = errs.Append("capture.aspect_ratio", fmt.Errorf("must be greater than 0"))
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		errs = errs.Append("capture.jpeg_quality", fmt.Errorf("must be between 1 and 100"))
	}

	for i, pattern := range c.Capture.ImagePatterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("capture.image_patterns[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}

	for i, ext := range c.Capture.FileTypes {
		if !strings.HasPrefix(ext, ".") {
			errs = errs.Append(fmt.Sprintf("capture.file_types[%d]", i), fmt.Errorf("extension %q must start with a dot", ext))
		}
	}

	if !isValidBackend(c.Recognizer.Backend) {
		errs = errs.Append("recognizer.backend", fmt.Errorf("unknown backend %q (want %s or %s)", c.Recognizer.Backend, BackendMock, BackendTesseract))
	}
	if c.Recognizer.Latency < 0 {
		errs = errs.Append("recognizer.latency", fmt.Errorf("cannot be negative"))
	}

	for key, kb := range c.Keybindings {
		field := fmt.Sprintf("keybindings.%s", key)
		if kb.Action == "" {
			errs = errs.Append(field, fmt.Errorf("action is required"))
			continue
		}
		if !isValidAction(kb.Action) {
			errs = errs.Append(field, fmt.Errorf("invalid action %q", kb.Action))
		}
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks that need the environment:
// template syntax of the camera command and access to the config file.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if err := c.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = errs.Append(fe.Field, fe.Err)
		}
	}

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			errs = errs.Append("config", fmt.Errorf("%s is a directory, not a file", configPath))
		} else if err != nil && !os.IsNotExist(err) {
			errs = errs.Append("config", fmt.Errorf("cannot access %s: %w", configPath, err))
		}
	}

	if err := tmpl.Check(c.Capture.CameraCommand, CameraTemplateData{}); err != nil {
		errs = errs.Append("capture.camera_command", fmt.Errorf("template error: %w", err))
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
		}
	}

	return errs.ToError()
}

// Warnings returns non-fatal issues: missing optional programs and directories.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Recognizer.Backend == BackendTesseract {
		if _, err := exec.LookPath(c.Recognizer.TesseractPath); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Recognizer",
				Item:     "tesseract_path",
				Message:  fmt.Sprintf("tesseract executable not found: %s", c.Recognizer.TesseractPath),
			})
		}
	}

	if bin := commandBinary(c.Capture.CameraCommand); bin != "" {
		if _, err := exec.LookPath(bin); err != nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Capture",
				Item:     "camera_command",
				Message:  fmt.Sprintf("camera program %q not found; camera capture will fail (use --frame)", bin),
			})
		}
	}

	if c.Capture.GalleryDir != "" {
		if info, err := os.Stat(c.Capture.GalleryDir); err != nil || !info.IsDir() {
			warnings = append(warnings, ValidationWarning{
				Category: "Capture",
				Item:     "gallery_dir",
				Message:  fmt.Sprintf("gallery directory %s does not exist", c.Capture.GalleryDir),
			})
		}
	}

	return warnings
}

// commandBinary returns the first word of a command template.
func commandBinary(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 || strings.Contains(fields[0], "{{") {
		return ""
	}
	return fields[0]
}

// Package capture acquires a single still image from the gallery, the camera or
// a file and hands its reference to text recognition.
package capture

import (
	"errors"
	"fmt"
)

// Sentinel errors for capture operations.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrCancelled        = errors.New("cancelled")
	ErrCaptureFailed    = errors.New("capture failed")
	ErrInvalidAsset     = errors.New("invalid image")
	ErrBusy             = errors.New("an image is already being processed")
	ErrNotInteractive   = errors.New("no interactive terminal")
)

// PermissionError reports a denied permission. It matches ErrPermissionDenied.
type PermissionError struct {
	Permission Permission
	// Settings is set when the user must change the stored permission before
	// retrying, since they will not be asked again. Only the camera is asked once.
	Settings bool
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s access denied", e.Permission.Label())
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

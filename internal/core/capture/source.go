package capture

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Source names.
const (
	SourceGallery = "gallery"
	SourceCamera  = "camera"
	SourceFile    = "file"
)

// Source produces one image reference. Acquire returns ErrCancelled when the
// user backs out.
type Source interface {
	Name() string
	Acquire(ctx context.Context) (string, error)
}

// Discarder is implemented by sources that create the files they return.
// Discard removes an acquired image that produced no result.
type Discarder interface {
	Discard(uri string) error
}

// Selector lets the user pick one of several options.
type Selector interface {
	Select(ctx context.Context, title string, options []string) (string, error)
}

// FilePicker lets the user browse for a file with one of the given extensions.
type FilePicker interface {
	PickFile(ctx context.Context, title, dir string, exts []string) (string, error)
}

// checkAsset resolves path and verifies it is a regular file with an allowed
// extension. Failures wrap ErrInvalidAsset.
func checkAsset(path string, exts []string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", wrapf(ErrInvalidAsset, "no file was selected")
	}

	abs, err := filepath.Abs(strings.TrimPrefix(path, "file://"))
	if err != nil {
		return "", wrapf(ErrInvalidAsset, "resolve %s: %v", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", wrapf(ErrInvalidAsset, "%s: %v", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", wrapf(ErrInvalidAsset, "%s is not a file", abs)
	}

	if len(exts) > 0 {
		ext := strings.ToLower(filepath.Ext(abs))
		if !slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) }) {
			return "", wrapf(ErrInvalidAsset, "%s is not a supported image type", filepath.Base(abs))
		}
	}

	return abs, nil
}

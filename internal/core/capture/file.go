package capture

import (
	"context"

	"github.com/rs/zerolog"
)

// FileOptions configures a File source.
type FileOptions struct {
	// Path skips the picker when set.
	Path   string
	Dir    string
	Types  []string
	Picker FilePicker
	Logger zerolog.Logger
}

// File opens an image through a file picker restricted to image extensions.
type File struct {
	path   string
	dir    string
	types  []string
	picker FilePicker
	log    zerolog.Logger
}

// NewFile creates a file source.
func NewFile(opts FileOptions) *File {
	return &File{
		path:   opts.Path,
		dir:    opts.Dir,
		types:  opts.Types,
		picker: opts.Picker,
		log:    opts.Logger,
	}
}

func (f *File) Name() string { return SourceFile }

// Acquire returns the absolute path of the chosen file. A pick that does not
// resolve to a readable image of an allowed type returns ErrInvalidAsset.
func (f *File) Acquire(ctx context.Context) (string, error) {
	path := f.path
	if path == "" {
		picked, err := f.picker.PickFile(ctx, "Choose an image", f.dir, f.types)
		if err != nil {
			return "", err
		}
		path = picked
	}

	abs, err := checkAsset(path, f.types)
	if err != nil {
		f.log.Warn().Err(err).Str("path", path).Msg("picked file rejected")
		return "", err
	}

	return abs, nil
}

package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// Image is an image file found in the gallery.
type Image struct {
	Path    string
	ModTime time.Time
}

// GalleryOptions configures a Gallery source.
type GalleryOptions struct {
	Dir         string
	Patterns    []string
	Permissions *Permissions
	Selector    Selector
	Logger      zerolog.Logger
}

// Gallery picks an existing image from a pictures directory. Listing it needs
// the media library permission.
type Gallery struct {
	dir      string
	patterns []string
	perms    *Permissions
	selector Selector
	log      zerolog.Logger
}

// NewGallery creates a gallery source.
func NewGallery(opts GalleryOptions) *Gallery {
	return &Gallery{
		dir:      opts.Dir,
		patterns: opts.Patterns,
		perms:    opts.Permissions,
		selector: opts.Selector,
		log:      opts.Logger,
	}
}

func (g *Gallery) Name() string { return SourceGallery }

func (g *Gallery) Acquire(ctx context.Context) (string, error) {
	if err := g.perms.Ensure(ctx, PermissionMediaLibrary); err != nil {
		return "", err
	}

	images, err := g.Images()
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", wrapf(ErrInvalidAsset, "no images found in %s", g.dir)
	}

	options := make([]string, len(images))
	for i, img := range images {
		options[i] = img.Path
	}

	choice, err := g.selector.Select(ctx, "Choose an image", options)
	if err != nil {
		return "", err
	}

	g.log.Debug().Str("path", choice).Msg("gallery image selected")

	return checkAsset(filepath.Join(g.dir, choice), nil)
}

// Images lists matching files under the gallery directory, newest first.
// Paths are relative to the directory.
func (g *Gallery) Images() ([]Image, error) {
	if _, err := os.Stat(g.dir); err != nil {
		return nil, fmt.Errorf("open gallery %s: %w", g.dir, err)
	}

	fsys := os.DirFS(g.dir)
	seen := make(map[string]bool)
	var images []Image

	for _, pattern := range g.patterns {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern),
			doublestar.WithFilesOnly(),
			doublestar.WithNoFollow(),
			doublestar.WithCaseInsensitive(),
		)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			rel := filepath.FromSlash(match)
			if seen[rel] {
				continue
			}
			seen[rel] = true

			info, err := os.Stat(filepath.Join(g.dir, rel))
			if err != nil {
				g.log.Debug().Err(err).Str("path", rel).Msg("skipping unreadable image")
				continue
			}

			images = append(images, Image{Path: rel, ModTime: info.ModTime()})
		}
	}

	sort.SliceStable(images, func(i, j int) bool {
		if images[i].ModTime.Equal(images[j].ModTime) {
			return images[i].Path < images[j].Path
		}
		return images[i].ModTime.After(images[j].ModTime)
	})

	return images, nil
}

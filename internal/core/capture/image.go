package capture

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// CropToAspect decodes src honoring EXIF orientation, crops it to ratio and
// writes the result as a JPEG in dir. The returned path is a new file; on error
// nothing is left behind.
func CropToAspect(src, dir string, ratio float64, quality int) (string, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", src, err)
	}

	b := img.Bounds()
	r := CenteredCrop(b.Dx(), b.Dy(), ratio)
	if r.W == 0 || r.H == 0 {
		return "", fmt.Errorf("crop %s: empty image", src)
	}

	cropped := imaging.Crop(img, r.Rectangle().Add(b.Min))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "capture-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}

	if err := imaging.Encode(f, cropped, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close output: %w", err)
	}

	return f.Name(), nil
}

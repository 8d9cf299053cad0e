package capture

import (
	"image"
	"math"
)

// Rect is a crop rectangle in source pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// CenteredCrop returns the largest rectangle with the given width/height ratio
// that fits a width x height image, centered on the axis being cut.
func CenteredCrop(width, height int, ratio float64) Rect {
	if width <= 0 || height <= 0 || ratio <= 0 {
		return Rect{W: max(width, 0), H: max(height, 0)}
	}

	if float64(width)/float64(height) > ratio {
		w := int(math.Floor(float64(height) * ratio))
		return Rect{
			X: (width - w) / 2,
			Y: 0,
			W: w,
			H: height,
		}
	}

	h := int(math.Floor(float64(width) / ratio))
	return Rect{
		X: 0,
		Y: (height - h) / 2,
		W: width,
		H: h,
	}
}

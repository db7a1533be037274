package imaging

import (
	"image"
	"log/slog"

	"github.com/bamsammich/sieve/internal/item"
)

// FileDecoder turns media files into display-ready RGBA buffers. Videos,
// HEIF files and anything that fails to decode produce Fallback().
type FileDecoder struct {
	Logger *slog.Logger
}

func (d FileDecoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Decode loads it, scales it to fit (maxWidth, maxHeight) and rotates it
// upright according to its orientation.
func (d FileDecoder) Decode(it item.FileItem, maxWidth, maxHeight int) *image.RGBA {
	if !it.IsImage() {
		d.logger().Debug("no decoder for item type", "path", it.Path, "type", it.Type)
		return Fallback()
	}

	img, err := Open(it.Path)
	if err != nil {
		d.logger().Warn("decode failed, using fallback", "path", it.Path, "error", err)
		return Fallback()
	}
	return Fit(img, it.Orientation.Rotation(), maxWidth, maxHeight)
}

// Fit scales img so that, once rotated by rotation degrees, it fits in
// (maxWidth, maxHeight), then applies the rotation.
func Fit(img image.Image, rotation, maxWidth, maxHeight int) *image.RGBA {
	if rotation == 90 || rotation == 270 {
		maxWidth, maxHeight = maxHeight, maxWidth
	}
	b := img.Bounds()
	w, h := RestrictSize(b.Dx(), b.Dy(), maxWidth, maxHeight)

	var scaled image.Image = img
	if w != b.Dx() || h != b.Dy() {
		scaled = Resize(img, w, h)
	}
	return Rotate(scaled, rotation)
}

// Package imaging decodes, orients and scales images for display and
// computes their perceptual hashes. Decoding never fails from the caller's
// point of view: unreadable input yields a 1x1 fallback image.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Open decodes the image stored at path using any registered format.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Fallback returns a fresh 1x1 opaque black image.
func Fallback() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	return img
}

// RestrictSize scales (width, height) down so that it fits in
// (maxWidth, maxHeight), keeping the aspect ratio. A zero bound leaves that
// dimension unrestricted. Sizes are never scaled up and never drop below 1.
func RestrictSize(width, height, maxWidth, maxHeight int) (int, int) {
	if maxWidth == 0 && maxHeight == 0 {
		return width, height
	}
	if (maxWidth == 0 || width <= maxWidth) && (maxHeight == 0 || height <= maxHeight) {
		return width, height
	}
	wratio, hratio := math.MaxFloat64, math.MaxFloat64
	if maxWidth > 0 {
		wratio = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 {
		hratio = float64(maxHeight) / float64(height)
	}
	ratio := min(wratio, hratio)
	return max(int(math.Round(float64(width)*ratio)), 1),
		max(int(math.Round(float64(height)*ratio)), 1)
}

// Resize scales src to exactly width x height with bilinear filtering.
func Resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Rotate turns src clockwise by 90, 180 or 270 degrees. Any other angle
// returns an unrotated copy.
func Rotate(src image.Image, degrees int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var at func(x, y int) (int, int)
	switch degrees {
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		at = func(x, y int) (int, int) { return h - 1 - y, x }
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		at = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		at = func(x, y int) (int, int) { return y, w - 1 - x }
	default:
		return toRGBA(src)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := at(x, y)
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

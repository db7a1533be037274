package imaging_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/imaging"
	"github.com/bamsammich/sieve/internal/item"
)

func TestRestrictSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{100, 100, 100, 100, 100, 100},
		{1000, 1000, 100, 100, 100, 100},
		{10, 10, 100, 100, 10, 10},
		{100, 50, 100, 100, 100, 50},
		{50, 100, 100, 100, 50, 100},
		{200, 60, 100, 100, 100, 30},
		{200, 60, 100, 0, 100, 30},
		{60, 150, 100, 100, 40, 100},
		{60, 150, 0, 100, 40, 100},
		{200, 400, 100, 100, 50, 100},
		{400, 200, 100, 100, 100, 50},
		{400, 200, 0, 0, 400, 200},
		{1000, 1, 10, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := imaging.RestrictSize(tt.w, tt.h, tt.maxW, tt.maxH)
		assert.Equal(t, tt.wantW, w, "%+v", tt)
		assert.Equal(t, tt.wantH, h, "%+v", tt)
	}
}

func TestRotate(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	red := color.RGBA{R: 255, A: 255}
	src.SetRGBA(0, 0, red)

	r90 := imaging.Rotate(src, 90)
	assert.Equal(t, image.Rect(0, 0, 2, 3), r90.Bounds())
	assert.Equal(t, red, r90.RGBAAt(1, 0), "top-left moves to top-right")

	r180 := imaging.Rotate(src, 180)
	assert.Equal(t, image.Rect(0, 0, 3, 2), r180.Bounds())
	assert.Equal(t, red, r180.RGBAAt(2, 1))

	r270 := imaging.Rotate(src, 270)
	assert.Equal(t, image.Rect(0, 0, 2, 3), r270.Bounds())
	assert.Equal(t, red, r270.RGBAAt(0, 2), "top-left moves to bottom-left")

	r0 := imaging.Rotate(src, 0)
	assert.Equal(t, red, r0.RGBAAt(0, 0))
}

func TestFitRespectsRotatedBounds(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := imaging.Fit(src, 90, 100, 100)
	assert.Equal(t, image.Rect(0, 0, 50, 100), out.Bounds())

	out = imaging.Fit(src, 0, 100, 0)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
}

func TestClone(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	dup := imaging.Clone(src)
	dup.Pix[0] = 9

	assert.Equal(t, uint8(0), src.Pix[0])
	assert.Equal(t, src.Rect, dup.Rect)
	assert.Nil(t, imaging.Clone(nil))
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func gradient(w, h int, reverse bool) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			if reverse {
				v = 255 - v
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestFileDecoder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, gradient(200, 100, false))
	corrupt := filepath.Join(dir, "corrupt.jpg")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a jpeg"), 0o644))

	var d imaging.FileDecoder

	img := d.Decode(item.FileItem{Path: good, Type: item.Image}, 50, 50)
	assert.Equal(t, image.Rect(0, 0, 50, 25), img.Bounds())

	img = d.Decode(item.FileItem{Path: good, Type: item.Image, Orientation: item.Portrait90}, 50, 50)
	assert.Equal(t, image.Rect(0, 0, 25, 50), img.Bounds())

	img = d.Decode(item.FileItem{Path: corrupt, Type: item.Image}, 50, 50)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())

	img = d.Decode(item.FileItem{Path: filepath.Join(dir, "clip.mp4"), Type: item.Video}, 50, 50)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	a := imaging.Placeholder()
	b := imaging.Placeholder()
	require.NotNil(t, a)
	assert.Equal(t, a.Bounds(), b.Bounds())
	assert.Equal(t, a.Pix, b.Pix)

	a.Pix[0] = 42
	assert.NotEqual(t, a.Pix[0], imaging.Placeholder().Pix[0], "callers get their own copy")
}

func TestPerceptualHash(t *testing.T) {
	t.Parallel()

	base, err := imaging.PerceptualHash(gradient(160, 80, false))
	require.NoError(t, err)
	assert.Len(t, base, 16)

	same, err := imaging.PerceptualHash(gradient(320, 160, false))
	require.NoError(t, err)
	assert.Less(t, base.Distance(same), 5)

	opposite, err := imaging.PerceptualHash(gradient(160, 80, true))
	require.NoError(t, err)
	assert.Greater(t, base.Distance(opposite), 64)

	tall, err := imaging.PerceptualHash(gradient(80, 160, false))
	require.NoError(t, err)
	assert.Len(t, tall, 16)
}

func TestHashFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "g.png")
	writePNG(t, path, gradient(64, 32, false))

	h, err := imaging.HashFile(path)
	require.NoError(t, err)
	assert.Len(t, h, 16)

	_, err = imaging.HashFile(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

package imaging

import (
	"image"
	"image/color"
	"sync"
)

const placeholderSize = 64

var (
	placeholderOnce sync.Once
	placeholderImg  *image.RGBA
)

// Placeholder returns a copy of the built-in hourglass shown while an
// image is still being decoded.
func Placeholder() *image.RGBA {
	placeholderOnce.Do(func() { placeholderImg = drawHourglass(placeholderSize) })
	return Clone(placeholderImg)
}

// drawHourglass renders two triangles meeting at the centre, framed by a
// bar at the top and bottom.
func drawHourglass(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	frame := color.RGBA{R: 0x6c, G: 0x70, B: 0x86, A: 0xff}
	sand := color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff}

	margin := size / 8
	bar := max(size/16, 1)
	mid := size / 2
	for y := margin; y < size-margin; y++ {
		if y < margin+bar || y >= size-margin-bar {
			for x := margin; x < size-margin; x++ {
				img.SetRGBA(x, y, frame)
			}
			continue
		}
		// Half width shrinks towards the waist and grows again below it.
		dist := mid - y
		if dist < 0 {
			dist = -dist
		}
		half := max(dist*(mid-margin)/(mid-margin-bar), 1)
		c := sand
		if y < mid {
			c = frame
		}
		for x := mid - half; x < mid+half; x++ {
			if x >= margin && x < size-margin {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

package imaging

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/corona10/goimagehash"

	"github.com/bamsammich/sieve/internal/item"
)

// PerceptualHash computes a 128-bit difference hash of img. Wide images
// are sampled on a 16x8 grid and tall ones on 8x16 so the grid follows the
// picture's shape.
func PerceptualHash(img image.Image) (item.Hash, error) {
	w, h := 8, 16
	if b := img.Bounds(); b.Dx() > b.Dy() {
		w, h = 16, 8
	}
	eh, err := goimagehash.ExtDifferenceHash(img, w, h)
	if err != nil {
		return nil, fmt.Errorf("difference hash: %w", err)
	}
	words := eh.GetHash()
	out := make(item.Hash, 0, len(words)*8)
	for _, word := range words {
		out = binary.BigEndian.AppendUint64(out, word)
	}
	return out, nil
}

// HashFile decodes path and returns its perceptual hash.
func HashFile(path string) (item.Hash, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return PerceptualHash(img)
}

package item

import (
	"path/filepath"
	"strings"
)

var extTypes = map[string]Type{}

func init() {
	register(Image, "jpg", "png", "tif", "jpeg", "jpe", "gif", "bmp", "webp", "tiff")
	register(RawImage,
		"mrw", "arw", "srf", "sr2", "mef", "orf", "srw", "erf", "kdc", "dcs", "rw2",
		"raf", "dcr", "dng", "pef", "crw", "raw", "iiq", "3fr", "nrw", "nef", "mos",
		"cr2", "ari")
	register(Video, "mp4", "avi", "mts", "mov")
	register(HeifImage, "heic", "heif")
}

func register(t Type, exts ...string) {
	for _, ext := range exts {
		extTypes[ext] = t
	}
}

// TypeOf classifies path by its extension, case-insensitively.
func TypeOf(path string) (Type, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	t, ok := extTypes[ext]
	return t, ok
}

// IsSupported reports whether path names a media file sieve tracks.
func IsSupported(path string) bool {
	_, ok := TypeOf(path)
	return ok
}

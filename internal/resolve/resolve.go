// Package resolve finds the capture time and orientation of media files.
// Each kind of file gets its own item.Resolver; For picks one from the
// file extension so callers never branch on file types themselves.
package resolve

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bamsammich/sieve/internal/item"
)

// For returns the resolver suited to path.
//
//nolint:ireturn // selects one capability per file kind
func For(path string) item.Resolver {
	typ, ok := item.TypeOf(path)
	if !ok {
		return File{}
	}
	switch typ {
	case item.Image, item.RawImage, item.HeifImage:
		return Exif{}
	case item.Video:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mp4", ".mov":
			return Video{}
		}
	}
	return File{}
}

// File resolves timestamps from filesystem metadata only: the earlier of
// birth time and modification time.
type File struct{}

func (File) Resolve(path string) item.Properties {
	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("stat for timestamp failed", "path", path, "error", err)
		return item.Properties{}
	}
	ts := info.ModTime().Unix()
	if birth, ok := birthTime(path); ok && birth > 0 && birth < ts {
		ts = birth
	}
	return item.Properties{Timestamp: ts}
}

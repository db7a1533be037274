package resolve

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/bamsammich/sieve/internal/item"
)

const exifTimeLayout = "2006:01:02 15:04:05"

// Exif reads DateTimeOriginal and Orientation from EXIF metadata and falls
// back to File for whatever is missing. The capture time carries no zone,
// so it is taken as UTC.
type Exif struct{}

func (Exif) Resolve(path string) item.Properties {
	x, err := decodeExif(path)
	if err != nil {
		slog.Debug("no exif metadata", "path", path, "error", err)
		return File{}.Resolve(path)
	}

	props := item.Properties{Orientation: exifOrientation(x)}
	if ts, err := exifTimestamp(x); err == nil {
		props.Timestamp = ts
	} else {
		props.Timestamp = File{}.Resolve(path).Timestamp
	}
	return props
}

func decodeExif(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return exif.Decode(f)
}

func exifTimestamp(x *exif.Exif) (int64, error) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return 0, err
	}
	s, err := tag.StringVal()
	if err != nil {
		return 0, err
	}
	t, err := time.ParseInLocation(exifTimeLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse DateTimeOriginal %q: %w", s, err)
	}
	return t.Unix(), nil
}

func exifOrientation(x *exif.Exif) item.Orientation {
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return item.OrientationUnknown
	}
	v, err := tag.Int(0)
	if err != nil {
		return item.OrientationUnknown
	}
	return OrientationFromExif(v)
}

// OrientationFromExif maps the EXIF orientation tag value. Mirrored
// variants are not distinguished.
func OrientationFromExif(v int) item.Orientation {
	switch v {
	case 1:
		return item.Landscape
	case 6:
		return item.Portrait90
	case 8:
		return item.Portrait270
	case 3:
		return item.Landscape180
	default:
		return item.OrientationUnknown
	}
}

// Package item models the photos and videos sieve tracks, the events used
// to file them and the list that owns both.
package item

import (
	"fmt"
	"path/filepath"
	"time"
)

// Type identifies the media kind of a tracked file.
type Type int

const (
	Image Type = iota + 1
	RawImage
	Video
	HeifImage
)

var typeNames = [...]string{
	Image:     "Image",
	RawImage:  "RawImage",
	Video:     "Video",
	HeifImage: "HeifImage",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Orientation is the camera orientation recorded for an image. The zero
// value means the orientation is not known.
type Orientation int

const (
	OrientationUnknown Orientation = iota
	Landscape
	Portrait90
	Landscape180
	Portrait270
)

var orientationNames = [...]string{
	OrientationUnknown: "Unknown",
	Landscape:          "Landscape",
	Portrait90:         "Portrait90",
	Landscape180:       "Landscape180",
	Portrait270:        "Portrait270",
}

func (o Orientation) String() string {
	if o >= 0 && int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return "Unknown"
}

// Rotation returns the clockwise rotation in degrees needed to display an
// image with this orientation upright.
func (o Orientation) Rotation() int {
	switch o {
	case Portrait90:
		return 90
	case Landscape180:
		return 180
	case Portrait270:
		return 270
	default:
		return 0
	}
}

// Properties are the metadata a Resolver extracts from a file.
type Properties struct {
	Timestamp   int64 // seconds since the Unix epoch
	Orientation Orientation
}

// Resolver knows how to find the capture time and orientation of one kind
// of file. Implementations are chosen once per path at scan time.
type Resolver interface {
	Resolve(path string) Properties
}

// FileItem is one tracked photo or video. Similar holds indices into the
// owning List and never contains the item's own index.
type FileItem struct {
	Path        string
	Timestamp   int64
	Orientation Orientation
	TakeOver    bool
	Similar     []int
	Type        Type
	Hash        Hash
}

// New builds a FileItem for path using r to resolve its properties. It
// returns false when path is not a supported media file.
func New(path string, r Resolver, takeOver bool, hash Hash) (FileItem, bool) {
	typ, ok := TypeOf(path)
	if !ok {
		return FileItem{}, false
	}
	props := r.Resolve(path)
	return FileItem{
		Path:        path,
		Timestamp:   props.Timestamp,
		Orientation: props.Orientation,
		TakeOver:    takeOver,
		Type:        typ,
		Hash:        hash,
	}, true
}

// Name returns the base file name.
func (f *FileItem) Name() string {
	return filepath.Base(f.Path)
}

// Time returns the capture instant in UTC.
func (f *FileItem) Time() time.Time {
	return time.Unix(f.Timestamp, 0).UTC()
}

// Date returns the UTC calendar date of the capture instant.
func (f *FileItem) Date() time.Time {
	return truncateDay(f.Time())
}

// IsImage reports whether the item can be decoded into pixels.
func (f *FileItem) IsImage() bool {
	return f.Type == Image || f.Type == RawImage
}

// HasHash reports whether a perceptual hash has been computed.
func (f *FileItem) HasHash() bool {
	return len(f.Hash) > 0
}

// HashDistance returns the perceptual distance to other, or NoDistance
// when either item lacks a comparable hash.
func (f *FileItem) HashDistance(other *FileItem) int {
	return f.Hash.Distance(other.Hash)
}

// ResetSimilar drops all similarity links.
func (f *FileItem) ResetSimilar() {
	f.Similar = f.Similar[:0]
}

func (f *FileItem) String() string {
	return fmt.Sprintf("%s - %s", f.Name(), f.Time().Format(time.DateTime))
}

package resolve

import (
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/bamsammich/sieve/internal/item"
)

// Seconds between the QuickTime epoch (1904-01-01) and the Unix epoch.
const mp4Epoch = 2082844800

var errNoCreationTime = errors.New("no creation time in movie header")

// Video reads the creation time from the mvhd box of MP4 and QuickTime
// containers. Zero or unreadable values fall back to File.
type Video struct{}

func (Video) Resolve(path string) item.Properties {
	ts, err := mp4CreationTime(path)
	if err != nil || ts <= 0 {
		slog.Debug("no container creation time", "path", path, "error", err)
		return File{}.Resolve(path)
	}
	return item.Properties{Timestamp: ts}
}

func mp4CreationTime(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return readCreationTime(f, info.Size())
}

// readCreationTime locates moov/mvhd in r and converts its creation time
// to Unix seconds.
func readCreationTime(r io.ReaderAt, size int64) (int64, error) {
	moovOff, moovLen, err := findBox(r, 0, size, "moov")
	if err != nil {
		return 0, err
	}
	mvhdOff, mvhdLen, err := findBox(r, moovOff, moovOff+moovLen, "mvhd")
	if err != nil {
		return 0, err
	}

	var head [12]byte
	if mvhdLen < 8 {
		return 0, errNoCreationTime
	}
	n := min(int64(len(head)), mvhdLen)
	if _, err := r.ReadAt(head[:n], mvhdOff); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}

	var created uint64
	switch head[0] {
	case 0:
		created = uint64(binary.BigEndian.Uint32(head[4:8]))
	case 1:
		if n < 12 {
			return 0, errNoCreationTime
		}
		created = binary.BigEndian.Uint64(head[4:12])
	default:
		return 0, errNoCreationTime
	}
	if created <= mp4Epoch {
		return 0, errNoCreationTime
	}
	return int64(created - mp4Epoch), nil //nolint:gosec // bounded by the check above
}

// findBox scans the boxes between start and end for typ and returns the
// offset and length of its payload.
func findBox(r io.ReaderAt, start, end int64, typ string) (int64, int64, error) {
	var hdr [16]byte
	for off := start; off+8 <= end; {
		if _, err := r.ReadAt(hdr[:8], off); err != nil {
			return 0, 0, err
		}
		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		hdrLen := int64(8)
		switch size {
		case 0:
			size = end - off
		case 1:
			if _, err := r.ReadAt(hdr[8:16], off+8); err != nil {
				return 0, 0, err
			}
			size = int64(binary.BigEndian.Uint64(hdr[8:16])) //nolint:gosec // validated below
			hdrLen = 16
		}
		if size < hdrLen || off+size > end {
			return 0, 0, errNoCreationTime
		}
		if string(hdr[4:8]) == typ {
			return off + hdrLen, size - hdrLen, nil
		}
		off += size
	}
	return 0, 0, errNoCreationTime
}

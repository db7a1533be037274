package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bamsammich/sieve/internal/platform"
)

// FileSystem is the set of operations the sieve performs on disk.
type FileSystem interface {
	Exists(path string) bool
	Size(path string) (int64, error)
	MkdirAll(path string) error
	// Identical reports whether dst holds the same bytes as src. A src that
	// cannot be read is an error; a dst that cannot be read is different.
	Identical(src, dst string) (bool, error)
	// Copy writes src to dst and returns the number of bytes written.
	Copy(ctx context.Context, src, dst string) (int64, error)
	Rename(src, dst string) error
	Remove(path string) error
}

// LocalFS is the FileSystem backed by the operating system.
type LocalFS struct {
	// Limiter caps copy throughput when non-nil.
	Limiter *rate.Limiter
}

var _ FileSystem = LocalFS{}

func (LocalFS) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (LocalFS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (LocalFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (LocalFS) Rename(src, dst string) error {
	return os.Rename(src, dst)
}

func (LocalFS) Remove(path string) error {
	return os.Remove(path)
}

const compareChunk = 64 * 1024

func (LocalFS) Identical(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	dstInfo, err := os.Stat(dst)
	if err != nil || srcInfo.Size() != dstInfo.Size() {
		return false, nil
	}

	sf, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer sf.Close()
	df, err := os.Open(dst)
	if err != nil {
		return false, nil
	}
	defer df.Close()

	a := make([]byte, compareChunk)
	b := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(sf, a)
		if errA != nil && !errors.Is(errA, io.EOF) && !errors.Is(errA, io.ErrUnexpectedEOF) {
			return false, errA
		}
		nb, errB := io.ReadFull(df, b)
		if errB != nil && !errors.Is(errB, io.EOF) && !errors.Is(errB, io.ErrUnexpectedEOF) {
			return false, nil
		}
		if na != nb || !bytes.Equal(a[:na], b[:nb]) {
			return false, nil
		}
		if errA != nil {
			return true, nil
		}
	}
}

// Copy writes src into a temporary sibling of dst and renames it into
// place once complete. The source modification time is preserved.
func (l LocalFS) Copy(ctx context.Context, src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	tmp := tmpName(dst)
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	RegisterTmp(tmp)
	defer DeregisterTmp(tmp)

	var result platform.CopyResult
	if l.Limiter != nil {
		result, err = platform.CopyReader(out, newRateLimitedReader(ctx, in, l.Limiter))
	} else {
		result, err = platform.CopyFile(out, in, info.Size())
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}

	if err := os.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("preserve mtime: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	return result.BytesWritten, nil
}

// tmpName returns a hidden temporary path next to dst.
func tmpName(dst string) string {
	dir, base := filepath.Split(dst)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.sieve-tmp", base, uuid.NewString()[:8]))
}

//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// CopyFile copies size bytes from src to dst, both positioned at offset 0.
// copy_file_range is tried first; unsupported or cross-filesystem setups
// fall through to read/write.
func CopyFile(dst, src *os.File, size int64) (CopyResult, error) {
	if size > 0 {
		// Not every filesystem supports fallocate.
		_ = unix.Fallocate(int(dst.Fd()), 0, 0, size)
	}

	result, err := copyFileRange(dst, src, size)
	if err == nil || !isFallbackErr(err) {
		return result, err
	}
	return copyReadWrite(dst, src)
}

func copyFileRange(dst, src *os.File, size int64) (CopyResult, error) {
	var roff, woff int64
	var total int64
	for remaining := size; remaining > 0; {
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			if total == 0 {
				return CopyResult{}, err
			}
			return CopyResult{BytesWritten: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return CopyResult{BytesWritten: total, Method: CopyFileRange}, nil
}

// isFallbackErr reports whether err means copy_file_range cannot be used
// for this pair of files.
func isFallbackErr(err error) bool {
	for _, e := range []error{unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EOPNOTSUPP} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

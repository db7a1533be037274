//go:build !linux

package platform

import "os"

// CopyFile copies src into dst with a buffered read/write loop.
func CopyFile(dst, src *os.File, _ int64) (CopyResult, error) {
	return copyReadWrite(dst, src)
}

// Package platform copies file contents using the fastest mechanism the
// operating system offers, falling back to a buffered read/write loop.
package platform

import (
	"io"
	"os"
	"sync"
)

// CopyMethod identifies which strategy performed a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// CopyReader streams r into dst through a pooled buffer. It is used when
// the source must pass through user space, for example to throttle it.
func CopyReader(dst io.Writer, r io.Reader) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte) //nolint:errcheck,forcetypeassert // pool only holds *[]byte
	defer bufPool.Put(bufp)

	n, err := io.CopyBuffer(onlyWriter{dst}, r, *bufp)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}

// onlyWriter hides ReaderFrom so io.CopyBuffer really uses the buffer.
type onlyWriter struct{ io.Writer }

func copyReadWrite(dst, src *os.File) (CopyResult, error) {
	return CopyReader(dst, src)
}

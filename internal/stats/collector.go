package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks scan and sieve statistics using lock-free atomic counters.
type Collector struct {
	itemsScanned   atomic.Int64
	hashesComputed atomic.Int64
	filesTotal     atomic.Int64
	filesCopied    atomic.Int64
	filesMoved     atomic.Int64
	filesDeleted   atomic.Int64
	filesFailed    atomic.Int64
	duplicates     atomic.Int64
	bytesCopied    atomic.Int64
	dirsCreated    atomic.Int64
	filesVerified  atomic.Int64
	startTime      time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	ItemsScanned   int64
	HashesComputed int64
	FilesTotal     int64
	FilesCopied    int64
	FilesMoved     int64
	FilesDeleted   int64
	FilesFailed    int64
	Duplicates     int64 // destination already held identical content
	BytesCopied    int64
	DirsCreated    int64
	FilesVerified  int64
	Elapsed        time.Duration
}

func (c *Collector) AddItemsScanned(n int64)   { c.itemsScanned.Add(n) }
func (c *Collector) AddHashesComputed(n int64) { c.hashesComputed.Add(n) }
func (c *Collector) AddFilesTotal(n int64)     { c.filesTotal.Add(n) }
func (c *Collector) AddFilesCopied(n int64)    { c.filesCopied.Add(n) }
func (c *Collector) AddFilesMoved(n int64)     { c.filesMoved.Add(n) }
func (c *Collector) AddFilesDeleted(n int64)   { c.filesDeleted.Add(n) }
func (c *Collector) AddFilesFailed(n int64)    { c.filesFailed.Add(n) }
func (c *Collector) AddDuplicates(n int64)     { c.duplicates.Add(n) }
func (c *Collector) AddBytesCopied(n int64)    { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)    { c.dirsCreated.Add(n) }
func (c *Collector) AddFilesVerified(n int64)  { c.filesVerified.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ItemsScanned:   c.itemsScanned.Load(),
		HashesComputed: c.hashesComputed.Load(),
		FilesTotal:     c.filesTotal.Load(),
		FilesCopied:    c.filesCopied.Load(),
		FilesMoved:     c.filesMoved.Load(),
		FilesDeleted:   c.filesDeleted.Load(),
		FilesFailed:    c.filesFailed.Load(),
		Duplicates:     c.duplicates.Load(),
		BytesCopied:    c.bytesCopied.Load(),
		DirsCreated:    c.dirsCreated.Load(),
		FilesVerified:  c.filesVerified.Load(),
		Elapsed:        c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Processed is the number of files that reached a final state.
func (s Snapshot) Processed() int64 {
	return s.FilesCopied + s.FilesMoved + s.FilesDeleted + s.FilesFailed
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"scanned=%d hashed=%d copied=%d moved=%d deleted=%d failed=%d duplicates=%d bytes=%d dirs=%d",
		s.ItemsScanned, s.HashesComputed, s.FilesCopied, s.FilesMoved, s.FilesDeleted,
		s.FilesFailed, s.Duplicates, s.BytesCopied, s.DirsCreated,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

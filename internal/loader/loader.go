// Package loader decodes images in the background and serves them from a
// small recency cache. Requests for the image currently on screen run on
// a primary lane; images shown next to it and prefetches share a secondary
// lane, so neither can starve the other.
package loader

import (
	"image"
	"log/slog"
	"sync"

	"github.com/bamsammich/sieve/internal/imaging"
	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/lru"
)

// DefaultCapacity is the number of decoded images kept when Config leaves
// Capacity unset.
const DefaultCapacity = 64

// Purpose tells the loader how urgent a request is.
type Purpose int

const (
	// CurrentImage replaces any pending primary work.
	CurrentImage Purpose = iota + 1
	// SimilarImage is queued behind earlier secondary work.
	SimilarImage
	// Prefetch is queued like SimilarImage unless the path is already pending.
	Prefetch
)

var purposeNames = [...]string{
	CurrentImage: "CurrentImage",
	SimilarImage: "SimilarImage",
	Prefetch:     "Prefetch",
}

func (p Purpose) String() string {
	if p > 0 && int(p) < len(purposeNames) {
		return purposeNames[p]
	}
	return "Unknown"
}

// Decoder produces a pixel buffer no larger than the given bounds. It must
// not fail; unreadable input yields a fallback image.
type Decoder interface {
	Decode(it item.FileItem, maxWidth, maxHeight int) *image.RGBA
}

// DoneFunc receives a private copy of a decoded image. It runs on a worker
// goroutine and may fire after the caller's selection has moved on, so it
// should compare it.Path with what is currently wanted.
type DoneFunc func(it item.FileItem, img *image.RGBA)

// Config configures a Loader.
type Config struct {
	Decoder   Decoder
	Capacity  int
	MaxWidth  int
	MaxHeight int
	Logger    *slog.Logger
}

// Loader is a two-lane background image loader backed by an LRU cache.
type Loader struct {
	decoder Decoder
	logger  *slog.Logger

	mu        sync.Mutex // guards images and the size bounds
	images    *lru.Map[string, *image.RGBA]
	maxWidth  int
	maxHeight int

	primary   *lane
	secondary *lane

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New starts a Loader with one worker per lane. Call Close to stop them.
func New(cfg Config) *Loader {
	if cfg.Decoder == nil {
		cfg.Decoder = imaging.FileDecoder{Logger: cfg.Logger}
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	l := &Loader{
		decoder:   cfg.Decoder,
		logger:    cfg.Logger,
		images:    lru.New[string, *image.RGBA](cfg.Capacity),
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		primary:   newLane("primary"),
		secondary: newLane("secondary"),
		done:      make(chan struct{}),
	}
	l.wg.Add(2)
	go l.work(l.primary)
	go l.work(l.secondary)
	return l
}

// Get returns a copy of the cached image for it, if present. It never
// starts a decode.
func (l *Loader) Get(it item.FileItem) (*image.RGBA, bool) {
	l.mu.Lock()
	img, ok := l.images.Get(it.Path)
	l.mu.Unlock()
	if !ok {
		return nil, false
	}
	return imaging.Clone(img), true
}

// WaitingPlaceholder returns the image to show while a decode is pending.
func (l *Loader) WaitingPlaceholder() *image.RGBA {
	return imaging.Placeholder()
}

// Load queues a decode of it. done may be nil when the caller only wants
// the image cached.
func (l *Loader) Load(it item.FileItem, purpose Purpose, done DoneFunc) {
	l.mu.Lock()
	cmd := command{item: it, maxWidth: l.maxWidth, maxHeight: l.maxHeight, done: done}
	l.mu.Unlock()

	switch purpose {
	case CurrentImage:
		l.primary.replace(cmd)
		l.primary.signal()
	case SimilarImage:
		l.secondary.pushBack(cmd)
		l.secondary.signal()
	case Prefetch:
		if l.secondary.pushBackUnique(cmd) {
			l.secondary.signal()
		}
	default:
		l.logger.Warn("ignoring load with unknown purpose", "path", it.Path, "purpose", int(purpose))
	}
}

// Purge drops all pending work on both lanes. Decodes already running
// finish and are cached.
func (l *Loader) Purge() {
	l.primary.clear()
	l.secondary.clear()
}

// RestrictSize sets the display bounds for future decodes. Growing either
// bound empties the cache because cached images may now be too small.
func (l *Loader) RestrictSize(maxWidth, maxHeight int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if maxWidth > l.maxWidth || maxHeight > l.maxHeight {
		l.images.Clear()
		l.maxWidth = maxWidth
		l.maxHeight = maxHeight
	}
}

// Pending reports how many commands wait on each lane.
func (l *Loader) Pending() (primary, secondary int) {
	return l.primary.len(), l.secondary.len()
}

// Close stops both workers after their current decode finishes. Pending
// work is discarded.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
		l.Purge()
	})
	l.wg.Wait()
}

func (l *Loader) work(ln *lane) {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case <-ln.wake:
		}
		for {
			cmd, ok := ln.pop()
			if !ok {
				break
			}
			l.process(ln, cmd)
			select {
			case <-l.done:
				return
			default:
			}
		}
	}
}

func (l *Loader) process(ln *lane, cmd command) {
	path := cmd.item.Path

	l.mu.Lock()
	cached := l.images.Contains(path)
	l.mu.Unlock()

	var img *image.RGBA
	if !cached {
		l.logger.Debug("decoding", "lane", ln.name, "path", path)
		img = l.decoder.Decode(cmd.item, cmd.maxWidth, cmd.maxHeight)
		l.mu.Lock()
		l.images.Put(path, img)
		l.mu.Unlock()
	}
	if cmd.done == nil {
		return
	}

	l.mu.Lock()
	stored, ok := l.images.Get(path)
	l.mu.Unlock()
	if ok {
		img = stored
	} else if img == nil {
		// Evicted by the other lane between the check and now.
		img = l.decoder.Decode(cmd.item, cmd.maxWidth, cmd.maxHeight)
	}
	cmd.done(cmd.item, imaging.Clone(img))
}

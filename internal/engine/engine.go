// Package engine sieves an item list into a target folder layout: kept
// items are copied or moved into date or event folders and discarded
// items are optionally deleted. Progress is reported as a stream of
// events that always ends with event.Done.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/stats"
)

// Config describes one sieve run.
type Config struct {
	List           *item.List
	Target         string
	Method         Method
	DirectoryNames DirectoryNames

	// FS defaults to LocalFS, throttled by BWLimit when set.
	FS FileSystem
	// Events receives progress. Sends block, so the caller must drain it.
	Events chan<- event.Event
	Stats  *stats.Collector
	Logger *slog.Logger

	DryRun  bool
	Verify  bool
	BWLimit int64 // bytes per second, 0 = unlimited
}

// Result is the outcome of a sieve run.
type Result struct {
	Stats  stats.Snapshot
	Failed int
	Err    error
}

type runner struct {
	cfg    Config
	fs     FileSystem
	stats  *stats.Collector
	log    *slog.Logger
	made   map[string]bool
	failed int
}

// Run processes every item of cfg.List once and blocks until done. Per-item
// failures are reported as events and do not stop the batch; Result.Err is
// only set when ctx ends the run early.
func Run(ctx context.Context, cfg Config) Result {
	r := &runner{
		cfg:   cfg,
		fs:    cfg.FS,
		stats: cfg.Stats,
		log:   cfg.Logger,
		made:  make(map[string]bool),
	}
	if r.fs == nil {
		fs := LocalFS{}
		if cfg.BWLimit > 0 {
			fs.Limiter = NewBWLimiter(cfg.BWLimit)
		}
		r.fs = fs
	}
	if r.stats == nil {
		r.stats = stats.NewCollector()
	}
	if r.log == nil {
		r.log = slog.Default()
	}

	err := r.run(ctx)
	r.emit(event.Event{Type: event.Done})

	return Result{Stats: r.stats.Snapshot(), Failed: r.failed, Err: err}
}

func (r *runner) run(ctx context.Context) error {
	items := r.cfg.List.Items
	r.stats.AddFilesTotal(int64(len(items)))
	r.emit(event.Event{Type: event.SieveStarted, Total: len(items), Dst: r.cfg.Target})
	r.log.Info("sieve started",
		"method", r.cfg.Method, "dirs", r.cfg.DirectoryNames,
		"items", len(items), "target", r.cfg.Target, "dry_run", r.cfg.DryRun)

	if r.cfg.Method != Delete {
		// A failure here resurfaces for every item below.
		_ = r.ensureDir(r.cfg.Target)
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sieve interrupted: %w", err)
		}
		it := &items[i]

		switch {
		case it.TakeOver && r.cfg.Method != Delete:
			r.transfer(ctx, it)
		case !it.TakeOver && (r.cfg.Method == Delete || r.cfg.Method == MoveAndDelete):
			r.remove(it)
		}
	}
	return nil
}

// transfer copies or moves a kept item into its target folder.
func (r *runner) transfer(ctx context.Context, it *item.FileItem) {
	action := event.Copy
	if r.cfg.Method != Copy {
		action = event.Move
	}

	dir := TargetDir(r.cfg.Target, r.cfg.List, it, r.cfg.DirectoryNames)
	if err := r.ensureDir(dir); err != nil {
		return
	}

	dst, err := resolveTarget(r.fs, it.Path, filepath.Join(dir, it.Name()))
	if err != nil {
		if errors.Is(err, ErrDestinationExists) {
			r.stats.AddDuplicates(1)
		}
		r.fail(action, it.Path, err)
		return
	}

	var n int64
	if !r.cfg.DryRun {
		if action == event.Copy {
			n, err = r.copyFile(ctx, it.Path, dst)
		} else {
			n, err = r.moveFile(ctx, it.Path, dst)
		}
		if err != nil {
			r.fail(action, it.Path, err)
			return
		}
	}

	ev := event.Event{Type: event.FileCopied, Path: it.Path, Dst: dst, Size: n}
	if action == event.Move {
		ev.Type = event.FileMoved
		r.stats.AddFilesMoved(1)
	} else {
		r.stats.AddFilesCopied(1)
	}
	r.stats.AddBytesCopied(n)
	r.emit(ev)
}

func (r *runner) copyFile(ctx context.Context, src, dst string) (int64, error) {
	n, err := r.fs.Copy(ctx, src, dst)
	if err != nil {
		return 0, err
	}
	if r.cfg.Verify {
		if err := verifyCopy(src, dst); err != nil {
			return 0, err
		}
		r.stats.AddFilesVerified(1)
	}
	return n, nil
}

// moveFile renames src onto dst, falling back to copy and remove when the
// rename is refused, e.g. across file systems.
func (r *runner) moveFile(ctx context.Context, src, dst string) (int64, error) {
	size, statErr := r.fs.Size(src)
	err := r.fs.Rename(src, dst)
	if err == nil {
		if statErr != nil {
			r.log.Debug("size unknown after rename", "src", src, "error", statErr)
		}
		return size, nil
	}
	r.log.Debug("rename failed, copying instead", "src", src, "dst", dst, "error", err)

	n, err := r.copyFile(ctx, src, dst)
	if err != nil {
		return 0, err
	}
	if err := r.fs.Remove(src); err != nil {
		return n, fmt.Errorf("remove source after copy: %w", err)
	}
	return n, nil
}

// remove deletes a discarded item.
func (r *runner) remove(it *item.FileItem) {
	if !r.cfg.DryRun {
		if err := r.fs.Remove(it.Path); err != nil {
			r.fail(event.Delete, it.Path, err)
			return
		}
	}
	r.stats.AddFilesDeleted(1)
	r.emit(event.Event{Type: event.FileDeleted, Path: it.Path})
}

// ensureDir creates dir unless it exists or was created earlier in this
// run. A failure is reported and returned.
func (r *runner) ensureDir(dir string) error {
	if r.made[dir] || r.fs.Exists(dir) {
		return nil
	}
	if !r.cfg.DryRun {
		if err := r.fs.MkdirAll(dir); err != nil {
			r.fail(event.CreateDir, dir, err)
			return err
		}
	}
	r.made[dir] = true
	r.stats.AddDirsCreated(1)
	r.emit(event.Event{Type: event.DirCreated, Path: dir})
	return nil
}

func (r *runner) fail(action event.Action, path string, err error) {
	r.failed++
	r.stats.AddFilesFailed(1)
	r.log.Warn("sieve failed", "action", action, "path", path, "error", err)
	r.emit(event.Event{Type: event.FileFailed, Action: action, Path: path, Error: err})
}

func (r *runner) emit(e event.Event) {
	if r.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	r.cfg.Events <- e
}

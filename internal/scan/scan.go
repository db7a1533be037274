// Package scan synchronizes an item list with a photo tree on disk and
// clusters it into groups of similar items.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/imaging"
	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/persist"
	"github.com/bamsammich/sieve/internal/resolve"
	"github.com/bamsammich/sieve/internal/similar"
	"github.com/bamsammich/sieve/internal/stats"
)

// Options controls synchronization and clustering.
type Options struct {
	UseTimestamps    bool
	TimestampMaxDiff int64 // seconds
	UseHash          bool
	HashMaxDiff      int
	Workers          int // hashing goroutines, 0 = GOMAXPROCS

	// Rules restricts the walk. The root's .sieveignore is always added.
	Rules *filter.Rules

	// Resolve picks the property resolver per path; defaults to resolve.For.
	Resolve func(path string) item.Resolver
	// Hash computes a perceptual hash; defaults to imaging.HashFile.
	Hash func(path string) (item.Hash, error)

	// NoSave skips writing the sidecar back.
	NoSave bool

	Stats  *stats.Collector
	Logger *slog.Logger
}

// DefaultOptions returns time-based clustering with the default threshold.
func DefaultOptions() Options {
	return Options{
		UseTimestamps:    true,
		TimestampMaxDiff: similar.DefaultMaxDiffSeconds,
		HashMaxDiff:      similar.DefaultMaxDiffHash,
	}
}

func (o *Options) setDefaults() {
	if o.Resolve == nil {
		o.Resolve = resolve.For
	}
	if o.Hash == nil {
		o.Hash = imaging.HashFile
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Stats == nil {
		o.Stats = stats.NewCollector()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Rules == nil {
		o.Rules = filter.New()
	}
}

// Synchronize builds the item list for root: stored state from the
// sidecar is merged with the files currently on disk, the list is
// clustered and the sidecar is written back.
func Synchronize(ctx context.Context, root string, opts Options) (*item.List, error) {
	opts.setDefaults()
	log := opts.Logger

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	// WalkDir does not descend into a symlinked root.
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if err := opts.Rules.LoadIgnoreFile(abs); err != nil {
		return nil, fmt.Errorf("load ignore file: %w", err)
	}

	sidecar, err := persist.Load(abs)
	if err != nil {
		// Start over from the files on disk.
		log.Warn("ignoring unreadable sidecar", "error", err)
		sidecar = &persist.Sidecar{Path: abs}
	}

	list := &item.List{Path: abs}
	events, err := sidecar.ItemEvents()
	if err != nil {
		log.Warn("dropping invalid events", "error", err)
	}
	for _, ev := range events {
		list.AddEvent(ev)
	}

	// Stored entries come first so vanished files drop out before any
	// properties are resolved. The first entry for a path wins.
	seeded := make(map[string]bool, len(sidecar.Items))
	for _, e := range sidecar.Items {
		p := persist.AbsPath(abs, e.FileName)
		if filepath.IsAbs(e.FileName) {
			if resolved, err := filepath.EvalSymlinks(p); err == nil {
				p = resolved
			}
		}
		if seeded[p] {
			log.Debug("skipping duplicate sidecar entry", "file", e.FileName)
			continue
		}
		seeded[p] = true
		list.Add(item.FileItem{Path: p, TakeOver: e.TakeOver, Hash: item.DecodeHash(e.Hash)})
	}
	list.DrainMissing(abs)

	if err := walk(ctx, abs, list, opts); err != nil {
		return nil, err
	}
	list.FinishSynchronizing(abs)
	log.Info("synchronized", "root", abs, "items", len(list.Items), "stored", sidecar.Len())

	if err := Cluster(ctx, list, opts); err != nil {
		return nil, err
	}

	switch {
	case opts.NoSave:
	case len(list.Items) == 0 && sidecar.Len() > 0:
		log.Warn("no files found, keeping existing sidecar", "root", abs, "stored", sidecar.Len())
	default:
		if err := persist.Save(list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// walk resolves every admitted media file below root. Files already in
// list keep their stored state; new files are kept by default. Stored
// items the walk no longer admits are removed.
func walk(ctx context.Context, root string, list *item.List, opts Options) error {
	index := make(map[string]int, len(list.Items))
	for i := range list.Items {
		index[list.Items[i].Path] = i
	}
	seen := make(map[string]bool, len(list.Items))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			opts.Logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || !opts.Rules.Admit(rel, true, 0) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || rel == persist.FileName || !item.IsSupported(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil || !opts.Rules.Admit(rel, false, info.Size()) {
			return nil
		}

		takeOver, hash := true, item.Hash(nil)
		i, stored := index[path]
		if stored {
			takeOver, hash = list.Items[i].TakeOver, list.Items[i].Hash
		}
		it, ok := item.New(path, opts.Resolve(path), takeOver, hash)
		if !ok {
			return nil
		}
		if stored {
			list.Items[i] = it
		} else {
			list.Add(it)
		}
		seen[path] = true
		opts.Stats.AddItemsScanned(1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	list.Items = slices.DeleteFunc(list.Items, func(it item.FileItem) bool { return !seen[it.Path] })
	return nil
}

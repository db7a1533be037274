package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/similar"
)

// Cluster recomputes the similar sets of list. The time pass runs first;
// the hash pass computes any missing hashes of image items in parallel
// before comparing them.
func Cluster(ctx context.Context, list *item.List, opts Options) error {
	opts.setDefaults()
	list.ResetSimilar()

	if opts.UseTimestamps {
		similar.ByTime(list.Items, opts.TimestampMaxDiff)
	}
	if !opts.UseHash {
		return nil
	}
	if err := hashMissing(ctx, list, opts); err != nil {
		return err
	}
	similar.ByHash(list.Items, opts.HashMaxDiff)
	return nil
}

// hashMissing fills in the hash of every image item that has none. Each
// worker writes only to the items it receives, so no lock is needed on
// the list.
func hashMissing(ctx context.Context, list *item.List, opts Options) error {
	var todo []*item.FileItem
	for i := range list.Items {
		if it := &list.Items[i]; it.IsImage() && !it.HasHash() {
			todo = append(todo, it)
		}
	}
	if len(todo) == 0 {
		return nil
	}
	opts.Logger.Info("hashing", "items", len(todo), "workers", opts.Workers)

	tasks := make(chan *item.FileItem)
	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range tasks {
				h, err := opts.Hash(it.Path)
				if err != nil {
					opts.Logger.Debug("hash failed", "path", it.Path, "error", err)
					continue
				}
				it.Hash = h
				opts.Stats.AddHashesComputed(1)
			}
		}()
	}

feed:
	for _, it := range todo {
		select {
		case <-ctx.Done():
			break feed
		case tasks <- it:
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("hashing interrupted: %w", err)
	}
	return nil
}

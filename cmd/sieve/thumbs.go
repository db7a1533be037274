package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/loader"
)

const defaultThumbSize = 256

func newThumbsCmd(ctx context.Context, a *app) *cobra.Command {
	var maxWidth, maxHeight, capacity int
	cmd := &cobra.Command{
		Use:   "thumbs DIR OUT",
		Short: "Export a PNG thumbnail of every item",
		Long: `Thumbs decodes every item of DIR, scaled to fit the given bounds and
rotated upright, and writes it to OUT as PNG. Videos and files that cannot
be decoded produce a 1x1 placeholder.`,
		Args: cobra.ExactArgs(2),
	}
	sf := addScanFlags(cmd)
	cmd.Flags().IntVar(&maxWidth, "max-width", defaultThumbSize, "thumbnail width bound in pixels (0 = unbounded)")
	cmd.Flags().IntVar(&maxHeight, "max-height", defaultThumbSize, "thumbnail height bound in pixels (0 = unbounded)")
	cmd.Flags().IntVar(&capacity, "cache", loader.DefaultCapacity, "number of decoded images kept in memory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		lc := a.cfg.Loader
		if !cmd.Flags().Changed("max-width") && lc.MaxWidth != nil {
			maxWidth = *lc.MaxWidth
		}
		if !cmd.Flags().Changed("max-height") && lc.MaxHeight != nil {
			maxHeight = *lc.MaxHeight
		}
		if !cmd.Flags().Changed("cache") && lc.Capacity != nil {
			capacity = *lc.Capacity
		}
		if capacity <= 0 {
			return fmt.Errorf("invalid --cache %d: must be positive", capacity)
		}

		list, err := a.synchronize(ctx, cmd, sf, args[0], nil, false)
		if err != nil {
			return err
		}
		out := args[1]
		if err := os.MkdirAll(out, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		ld := loader.New(loader.Config{
			Capacity:  capacity,
			MaxWidth:  maxWidth,
			MaxHeight: maxHeight,
			Logger:    slog.Default(),
		})
		defer ld.Close()

		written, err := exportThumbs(ctx, ld, list, out)
		if !a.quiet {
			fmt.Fprintf(os.Stderr, "wrote %d thumbnails to %s\n", written, out)
		}
		return err
	}
	return cmd
}

// exportThumbs queues every item of list on ld and writes each decoded
// image to dir. The first item is the current image and its group is
// loaded as similar images; everything else is prefetched.
func exportThumbs(ctx context.Context, ld *loader.Loader, list *item.List, dir string) (int, error) {
	if len(list.Items) == 0 {
		return 0, nil
	}

	// Buffered for every item so callbacks never block, even after the
	// export stopped waiting for them.
	results := make(chan error, len(list.Items))
	done := func(it item.FileItem, img *image.RGBA) {
		if err := writePNG(filepath.Join(dir, thumbName(list, it.Path)), img); err != nil {
			results <- fmt.Errorf("%s: %w", it.Path, err)
			return
		}
		results <- nil
	}

	requested := make(map[string]bool, len(list.Items))
	request := func(it item.FileItem, purpose loader.Purpose) {
		if requested[it.Path] {
			return
		}
		requested[it.Path] = true
		ld.Load(it, purpose, done)
	}

	first := list.Items[0]
	request(first, loader.CurrentImage)
	for _, i := range first.Similar {
		request(list.Items[i], loader.SimilarImage)
	}
	for _, it := range list.Items[1:] {
		request(it, loader.Prefetch)
	}

	var (
		errs    []error
		written int
	)
	for range len(requested) {
		select {
		case err := <-results:
			if err != nil {
				errs = append(errs, err)
				continue
			}
			written++
		case <-ctx.Done():
			primary, secondary := ld.Pending()
			slog.Debug("dropping queued thumbnails", "primary", primary, "secondary", secondary)
			ld.Purge()
			return written, fmt.Errorf("thumbnail export interrupted: %w", ctx.Err())
		}
	}
	return written, errors.Join(errs...)
}

// thumbName flattens the item path below the root into one file name.
func thumbName(list *item.List, path string) string {
	rel := relName(list, path)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "_") + ".png"
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

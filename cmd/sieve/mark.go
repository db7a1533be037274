package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/persist"
)

func newMarkCmd(ctx context.Context, a *app) *cobra.Command {
	var keep, discard bool
	cmd := &cobra.Command{
		Use:   "mark DIR FILE...",
		Short: "Mark items to keep or discard",
		Long: `Mark sets whether FILE is taken over by the next apply. FILE may be
given relative to the current directory or to DIR.`,
		Args: cobra.MinimumNArgs(2),
	}
	sf := addScanFlags(cmd)
	cmd.Flags().BoolVar(&keep, "keep", false, "take the files over")
	cmd.Flags().BoolVar(&discard, "discard", false, "leave the files behind")
	cmd.MarkFlagsMutuallyExclusive("keep", "discard")
	cmd.MarkFlagsOneRequired("keep", "discard")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		list, err := a.synchronize(ctx, cmd, sf, args[0], nil, true)
		if err != nil {
			return err
		}
		for _, name := range args[1:] {
			i := list.IndexOfPath(locate(list.Path, name))
			if i < 0 {
				return fmt.Errorf("%s: not an item of %s", name, list.Path)
			}
			list.Items[i].TakeOver = keep
			slog.Debug("marked", "path", list.Items[i].Path, "take_over", keep)
		}
		if err := persist.Save(list); err != nil {
			return err
		}
		a.reporter().ScanSummary(list, 0)
		return nil
	}
	return cmd
}

// locate resolves name against the working directory first and falls back
// to the scan root. Existing files are resolved through symlinks the way
// the scan root is.
func locate(root, name string) string {
	p := filepath.Join(root, name)
	if filepath.IsAbs(name) {
		p = filepath.Clean(name)
	} else if abs, err := filepath.Abs(name); err == nil {
		if _, statErr := os.Stat(abs); !errors.Is(statErr, os.ErrNotExist) {
			p = abs
		}
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return p
}

// relName is the inverse of locate for display.
func relName(list *item.List, path string) string {
	if rel, err := filepath.Rel(list.Path, path); err == nil {
		return rel
	}
	return path
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/scan"
	"github.com/bamsammich/sieve/internal/stats"
)

func newScanCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Synchronize a photo tree and save its sidecar",
		Long: `Scan walks DIR, merges what it finds with the stored state in
DIR/image_sieve.json, groups similar items and writes the sidecar back.`,
		Args: cobra.ExactArgs(1),
	}
	sf := addScanFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		collector := stats.NewCollector()
		list, err := a.synchronize(ctx, cmd, sf, args[0], collector, false)
		if err != nil {
			return err
		}
		a.reporter().ScanSummary(list, collector.Snapshot().HashesComputed)
		return nil
	}
	return cmd
}

func newGroupsCmd(ctx context.Context, a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups DIR",
		Short: "List groups of similar items",
		Args:  cobra.ExactArgs(1),
	}
	sf := addScanFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		list, err := a.synchronize(ctx, cmd, sf, args[0], nil, false)
		if err != nil {
			return err
		}
		a.reporter().Groups(list)
		return nil
	}
	return cmd
}

// synchronize runs the scanner over dir with the merged flag and config
// options. With noSave the caller is expected to save the list itself.
func (a *app) synchronize(
	ctx context.Context,
	cmd *cobra.Command,
	sf *scanFlags,
	dir string,
	collector *stats.Collector,
	noSave bool,
) (*item.List, error) {
	opts, err := sf.options(cmd, a.cfg)
	if err != nil {
		return nil, err
	}
	opts.Stats = collector
	opts.NoSave = noSave

	list, err := scan.Synchronize(ctx, dir, opts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return list, nil
}

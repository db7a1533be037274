package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/engine"
	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/stats"
	"github.com/bamsammich/sieve/internal/ui"
)

type applyFlags struct {
	method  string
	dirs    string
	dryRun  bool
	verify  bool
	bwLimit string
}

func newApplyCmd(ctx context.Context, a *app) *cobra.Command {
	var af applyFlags
	cmd := &cobra.Command{
		Use:   "apply DIR TARGET",
		Short: "File kept items into TARGET",
		Long: `Apply copies or moves every kept item of DIR into a date or event
folder below TARGET. With --method delete or move-and-delete, discarded
items are deleted from DIR.

Methods: copy, move, move-and-delete, delete.
Folder layouts: year-month, year, year-month-day, year-quarter, year/month.`,
		Args: cobra.ExactArgs(2),
	}
	sf := addScanFlags(cmd)
	cmd.Flags().StringVar(&af.method, "method", "copy", "what to do with items")
	cmd.Flags().StringVar(&af.dirs, "dirs", "year-month", "target folder layout")
	cmd.Flags().BoolVar(&af.dryRun, "dry-run", false, "show what would be done without touching files")
	cmd.Flags().BoolVar(&af.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	cmd.Flags().StringVar(&af.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		applyEngineDefaults(cmd, a.cfg.Defaults, &af)

		method, err := engine.ParseMethod(af.method)
		if err != nil {
			return fmt.Errorf("invalid --method: %w", err)
		}
		dirs, err := engine.ParseDirectoryNames(af.dirs)
		if err != nil {
			return fmt.Errorf("invalid --dirs: %w", err)
		}
		var bwLimit int64
		if af.bwLimit != "" {
			bwLimit, err = filter.ParseSize(af.bwLimit)
			if err != nil {
				return fmt.Errorf("invalid --bwlimit: %w", err)
			}
		}
		if af.dryRun {
			slog.Info("dry run mode")
		}

		list, err := a.synchronize(ctx, cmd, sf, args[0], nil, false)
		if err != nil {
			return err
		}

		collector := stats.NewCollector()
		presenter := ui.NewPresenter(ui.Config{
			Writer:    os.Stdout,
			ErrWriter: os.Stderr,
			Stats:     collector,
			Theme:     a.theme,
			Color:     a.color,
			Quiet:     a.quiet,
			Verbose:   a.verbose,
		})

		events := make(chan event.Event, 256)
		var presenterEvents <-chan event.Event = events
		if a.logging {
			presenterEvents = teeToLog(events)
		}

		var presenterErr error
		var presenterWg sync.WaitGroup
		presenterWg.Add(1)
		go func() {
			defer presenterWg.Done()
			presenterErr = presenter.Run(presenterEvents)
		}()

		result := engine.Run(ctx, engine.Config{
			List:           list,
			Target:         args[1],
			Method:         method,
			DirectoryNames: dirs,
			Events:         events,
			Stats:          collector,
			Logger:         slog.Default(),
			DryRun:         af.dryRun,
			Verify:         af.verify,
			BWLimit:        bwLimit,
		})
		close(events)
		presenterWg.Wait()
		if presenterErr != nil {
			fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
		}

		if !a.quiet {
			if summary := presenter.Summary(); summary != "" {
				fmt.Fprintln(os.Stderr, summary)
			}
		}

		if result.Err != nil {
			if n := engine.CleanupTmpFiles(); n > 0 {
				slog.Debug("removed partial files", "count", n)
			}
			slog.Error("sieve interrupted", "error", result.Err)
			return &exitError{code: 2}
		}
		if result.Failed > 0 {
			return &exitError{code: 1}
		}
		return nil
	}
	return cmd
}

// teeToLog logs every progress event and forwards it unchanged.
func teeToLog(in <-chan event.Event) <-chan event.Event {
	out := make(chan event.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			attrs := []any{"type", ev.Type.String(), "path", ev.Path}
			if ev.Dst != "" {
				attrs = append(attrs, "dst", ev.Dst, "size", ev.Size)
			}
			if ev.Error != nil {
				attrs = append(attrs, "action", ev.Action.String(), "error", ev.Error)
			}
			slog.Debug("sieve.event", attrs...)
			out <- ev
		}
	}()
	return out
}

func applyEngineDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, af *applyFlags) {
	if !cmd.Flags().Changed("method") && defaults.Method != nil {
		af.method = *defaults.Method
	}
	if !cmd.Flags().Changed("dirs") && defaults.DirectoryNames != nil {
		af.dirs = *defaults.DirectoryNames
	}
	if !cmd.Flags().Changed("dry-run") && defaults.DryRun != nil {
		af.dryRun = *defaults.DryRun
	}
	if !cmd.Flags().Changed("verify") && defaults.Verify != nil {
		af.verify = *defaults.Verify
	}
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		af.bwLimit = *defaults.BWLimit
	}
}

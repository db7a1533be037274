package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/filter"
	"github.com/bamsammich/sieve/internal/scan"
	"github.com/bamsammich/sieve/internal/similar"
)

// filterFlag implements pflag.Value for repeatable --exclude and --include.
type filterFlag struct {
	rules   *filter.Rules
	include bool
	values  []string
}

func (f *filterFlag) String() string { return strings.Join(f.values, ",") }
func (f *filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	var err error
	if f.include {
		err = f.rules.Include(val)
	} else {
		err = f.rules.Exclude(val)
	}
	if err != nil {
		return err
	}
	f.values = append(f.values, val)
	return nil
}

var _ pflag.Value = (*filterFlag)(nil)

// scanFlags are the synchronizer and clustering flags shared by every
// command that reads a photo tree.
type scanFlags struct {
	timestamps  bool
	maxDiff     int64
	useHash     bool
	sensitivity string
	hashMaxDiff int
	workers     int
	minSize     string

	rules *filter.Rules
}

func addScanFlags(cmd *cobra.Command) *scanFlags {
	sf := &scanFlags{rules: filter.New()}
	f := cmd.Flags()
	f.BoolVar(&sf.timestamps, "timestamps", true, "group items taken close together in time")
	f.Int64Var(&sf.maxDiff, "max-diff", similar.DefaultMaxDiffSeconds,
		"maximum gap in seconds between items of a time group")
	f.BoolVar(&sf.useHash, "hash", false, "group images that look alike (perceptual hash)")
	f.StringVar(&sf.sensitivity, "sensitivity", "low",
		"hash similarity preset: very-low, low, medium, high, very-high")
	f.IntVar(&sf.hashMaxDiff, "hash-max-diff", 0, "maximum hash distance (overrides --sensitivity)")
	f.IntVarP(&sf.workers, "workers", "n", 0, "number of hashing workers (default: GOMAXPROCS)")
	f.StringVar(&sf.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 10K, 1M)")
	f.Var(&filterFlag{rules: sf.rules}, "exclude", "skip paths matching PATTERN (repeatable)")
	f.Var(&filterFlag{rules: sf.rules, include: true}, "include",
		"scan paths matching PATTERN even if excluded later (repeatable)")
	return sf
}

// options merges the command line with the config file into scan options.
// Flags given explicitly win over config values.
func (sf *scanFlags) options(cmd *cobra.Command, cfg config.Config) (scan.Options, error) {
	applyConfigDefaults(cmd, cfg.Defaults, sf)

	for _, p := range cfg.Scan.Exclude {
		if err := sf.rules.Exclude(p); err != nil {
			return scan.Options{}, fmt.Errorf("config [scan] exclude: %w", err)
		}
	}
	minSize := sf.minSize
	if !cmd.Flags().Changed("min-size") && cfg.Scan.MinSize != nil {
		minSize = *cfg.Scan.MinSize
	}
	if minSize != "" {
		n, err := filter.ParseSize(minSize)
		if err != nil {
			return scan.Options{}, fmt.Errorf("invalid --min-size: %w", err)
		}
		sf.rules.SetMinSize(n)
	}

	hashMaxDiff := sf.hashMaxDiff
	if hashMaxDiff <= 0 {
		n, err := similar.Sensitivity(sf.sensitivity)
		if err != nil {
			return scan.Options{}, fmt.Errorf("invalid --sensitivity: %w", err)
		}
		hashMaxDiff = n
	}

	opts := scan.DefaultOptions()
	opts.UseTimestamps = sf.timestamps
	opts.TimestampMaxDiff = sf.maxDiff
	opts.UseHash = sf.useHash
	opts.HashMaxDiff = hashMaxDiff
	opts.Workers = sf.workers
	opts.Rules = sf.rules
	opts.Logger = slog.Default()

	slog.Debug("scan options",
		"timestamps", opts.UseTimestamps, "max_diff", opts.TimestampMaxDiff,
		"hash", opts.UseHash, "hash_max_diff", opts.HashMaxDiff,
		"workers", opts.Workers, "rules", sf.rules.Len())
	return opts, nil
}

func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, sf *scanFlags) {
	if !cmd.Flags().Changed("timestamps") && defaults.UseTimestamps != nil {
		sf.timestamps = *defaults.UseTimestamps
	}
	if !cmd.Flags().Changed("max-diff") && defaults.TimestampMaxDiff != nil {
		sf.maxDiff = *defaults.TimestampMaxDiff
	}
	if !cmd.Flags().Changed("hash") && defaults.UseHash != nil {
		sf.useHash = *defaults.UseHash
	}
	if !cmd.Flags().Changed("sensitivity") && defaults.Sensitivity != nil {
		sf.sensitivity = *defaults.Sensitivity
	}
	// An explicit --sensitivity outranks a configured distance.
	if !cmd.Flags().Changed("hash-max-diff") && !cmd.Flags().Changed("sensitivity") &&
		defaults.HashMaxDiff != nil {
		sf.hashMaxDiff = *defaults.HashMaxDiff
	}
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		sf.workers = *defaults.Workers
	}
}

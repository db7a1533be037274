package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// app holds the state shared by every subcommand once the root command's
// flags are parsed.
type app struct {
	verbose bool
	quiet   bool
	logFile string

	cfg     config.Config
	logOut  *os.File
	theme   *ui.Theme
	color   bool
	logging bool // a --log file receives the progress stream
}

func run() int {
	a := &app{}
	var showVersion bool

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "sieve",
		Short: "Sort, deduplicate and file photo collections",
		Long: `sieve scans a photo and video tree, groups shots taken close together
or that look alike, and files the ones you keep into date or event folders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Println("sieve " + version)
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().
		StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(
		newScanCmd(ctx, a),
		newGroupsCmd(ctx, a),
		newMarkCmd(ctx, a),
		newEventCmd(ctx, a),
		newApplyCmd(ctx, a),
		newThumbsCmd(ctx, a),
		docsCmd,
	)

	err := rootCmd.Execute()
	if a.logOut != nil {
		a.logOut.Close()
	}
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// setup installs the default logger and loads the config file.
func (a *app) setup() error {
	logLevel := slog.LevelWarn
	if a.verbose {
		logLevel = slog.LevelDebug
	} else if !a.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	var logHandler slog.Handler = textHandler
	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logOut = lf
		a.logging = true
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "error", err)
	}
	for _, key := range cfg.Unknown {
		slog.Warn("unknown config key", "key", key, "file", config.Path())
	}
	a.cfg = cfg
	a.theme = ui.NewTheme(cfg.Theme)
	a.color = ui.ColorEnabled(os.Stdout.Fd())
	return nil
}

func (a *app) reporter() ui.Reporter {
	return ui.Reporter{W: os.Stdout, Theme: a.theme, Color: a.color}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

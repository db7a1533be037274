// Package ui renders sieve progress and scan reports for the terminal.
package ui

import (
	"io"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	Theme     *Theme
	Color     bool // style lines with Theme
	Quiet     bool
	Verbose   bool // also show directory creation
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory returns the interface
func NewPresenter(cfg Config) Presenter {
	theme := cfg.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	if cfg.Quiet {
		return &quietPresenter{errW: cfg.ErrWriter, stats: cfg.Stats}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		errW:    cfg.ErrWriter,
		stats:   cfg.Stats,
		theme:   theme,
		color:   cfg.Color,
		verbose: cfg.Verbose,
	}
}

package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/stats"
)

const progressInterval = 5 * time.Second

// plainPresenter prints one line per event to stdout, error lines to
// stderr, and a periodic progress line to stderr on long runs.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	theme   *Theme
	color   bool
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	if ev.Type == event.DirCreated && !p.verbose {
		return
	}
	w := p.w
	if ev.IsError() {
		w = p.errW
	}
	line := ev.String()
	if p.color {
		line = p.theme.Render(ev, line)
	}
	fmt.Fprintln(w, line)
}

func (p *plainPresenter) printProgress() {
	if p.stats == nil {
		return
	}
	snap := p.stats.Snapshot()
	if snap.FilesTotal == 0 {
		return
	}
	fmt.Fprintf(p.errW, "progress: %s/%s items  %s  %s\n",
		FormatCount(snap.Processed()), FormatCount(snap.FilesTotal),
		FormatBytes(snap.BytesCopied), FormatDuration(snap.Elapsed))
}

func (p *plainPresenter) Summary() string {
	if p.stats == nil {
		return ""
	}
	return CompletionSummary(p.stats.Snapshot())
}

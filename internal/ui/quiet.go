package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/stats"
)

// quietPresenter prints nothing but failures.
type quietPresenter struct {
	errW  io.Writer
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		if ev.IsError() && p.errW != nil {
			fmt.Fprintln(p.errW, ev.String())
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}

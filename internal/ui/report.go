package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bamsammich/sieve/internal/item"
)

// Reporter writes scan results for the groups, scan and event commands.
type Reporter struct {
	W     io.Writer
	Theme *Theme
	Color bool
}

func (r Reporter) style(s string, st func(...string) string) string {
	if !r.Color {
		return s
	}
	return st(s)
}

// ScanSummary prints the counts of a synchronized list.
func (r Reporter) ScanSummary(list *item.List, hashed int64) {
	groups := list.Groups()
	fmt.Fprintf(r.W, "%s  items %s  kept %s  discarded %s  groups %d  events %d",
		r.style(list.Path, r.Theme.Header.Render),
		FormatCount(int64(len(list.Items))), FormatCount(int64(list.Kept())),
		FormatCount(int64(list.Discarded())), len(groups), len(list.Events))
	if hashed > 0 {
		fmt.Fprintf(r.W, "  hashed %s", FormatCount(hashed))
	}
	fmt.Fprintln(r.W)
}

// Groups prints every group of similar items, one member per line. Kept
// members are marked with "+", discarded ones with "-".
func (r Reporter) Groups(list *item.List) {
	for n, group := range list.Groups() {
		header := fmt.Sprintf("group %d (%d items)", n+1, len(group))
		fmt.Fprintln(r.W, r.style(header, r.Theme.Header.Render))
		for _, i := range group {
			it := &list.Items[i]
			mark, st := "+", r.Theme.Progress.Render
			if !it.TakeOver {
				mark, st = "-", r.Theme.Muted.Render
			}
			fmt.Fprintf(r.W, "  %s %s\n", mark, r.style(r.relative(list, it.Path)+"  "+it.Time().Format("2006-01-02 15:04:05"), st))
		}
	}
}

// Events prints the event list.
func (r Reporter) Events(list *item.List) {
	if len(list.Events) == 0 {
		fmt.Fprintln(r.W, r.style("no events", r.Theme.Muted.Render))
		return
	}
	for _, e := range list.Events {
		fmt.Fprintln(r.W, e.String())
	}
}

func (r Reporter) relative(list *item.List, path string) string {
	if rel, err := filepath.Rel(list.Path, path); err == nil && list.Path != "" {
		return rel
	}
	return path
}

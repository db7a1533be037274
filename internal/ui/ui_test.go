package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sieve/internal/config"
	"github.com/bamsammich/sieve/internal/event"
	"github.com/bamsammich/sieve/internal/item"
	"github.com/bamsammich/sieve/internal/stats"
)

func feed(evs ...event.Event) <-chan event.Event {
	ch := make(chan event.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch
}

var sample = []event.Event{
	{Type: event.SieveStarted, Total: 2, Dst: "out"},
	{Type: event.DirCreated, Path: "out/2021-09"},
	{Type: event.FileCopied, Path: "in/a.jpg", Dst: "out/2021-09/a.jpg"},
	{Type: event.FileFailed, Action: event.Delete, Path: "in/b.jpg", Error: errors.New("busy")},
	{Type: event.Done},
}

func TestPlainPresenterLines(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut, Stats: stats.NewCollector()})

	require.NoError(t, p.Run(feed(sample...)))
	assert.Equal(t, "Sieving 2 items into out\nin/a.jpg -> out/2021-09/a.jpg\nDone\n", out.String())
	assert.Equal(t, "Error deleting in/b.jpg: busy\n", errOut.String())
}

func TestPlainPresenterVerboseShowsDirectories(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut, Verbose: true})

	require.NoError(t, p.Run(feed(sample...)))
	assert.Contains(t, out.String(), "Create out/2021-09\n")
	assert.Empty(t, p.Summary(), "no collector, no summary")
}

func TestPlainPresenterColorKeepsText(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut, Color: true})

	require.NoError(t, p.Run(feed(sample...)))
	assert.Contains(t, out.String(), "in/a.jpg -> out/2021-09/a.jpg")
	assert.Contains(t, errOut.String(), "Error deleting in/b.jpg: busy")
}

func TestQuietPresenterOnlyErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPresenter(Config{Writer: &out, ErrWriter: &errOut, Quiet: true})

	require.NoError(t, p.Run(feed(sample...)))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error deleting in/b.jpg: busy\n", errOut.String())
	assert.Empty(t, p.Summary())
}

func TestPrintProgress(t *testing.T) {
	var errOut bytes.Buffer
	c := stats.NewCollector()
	p := &plainPresenter{errW: &errOut, stats: c}

	p.printProgress()
	assert.Empty(t, errOut.String(), "nothing before the total is known")

	c.AddFilesTotal(1500)
	c.AddFilesCopied(1200)
	p.printProgress()
	assert.True(t, strings.HasPrefix(errOut.String(), "progress: 1,200/1,500 items"), errOut.String())
}

func TestCompletionSummary(t *testing.T) {
	got := CompletionSummary(stats.Snapshot{
		FilesCopied: 3, BytesCopied: 2048, Elapsed: 2 * time.Second,
	})
	assert.Equal(t, "done ✓  copied 3  size 2.0 KiB  avg 1.0 KiB/s  time 2s  errors 0", got)

	got = CompletionSummary(stats.Snapshot{
		FilesDeleted: 4, FilesFailed: 1, Duplicates: 1, Elapsed: 61 * time.Second,
	})
	assert.Equal(t, "done ✗  deleted 4  duplicates 1  time 1m 01s  errors 1", got)
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in))
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "2m 05s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h 01m 01s", FormatDuration(3661*time.Second))
	assert.Equal(t, "0 B/s", FormatRate(0))
}

func TestThemeOverrides(t *testing.T) {
	red := "#ff0000"
	th := NewTheme(config.ThemeConfig{Error: &red})
	assert.Equal(t, red, string(th.Error.GetForeground().(lipgloss.Color)))
	assert.Equal(t, defaultDone, string(DefaultTheme().Done.GetForeground().(lipgloss.Color)))
	assert.Contains(t, th.Render(event.Event{Type: event.Done}, "Done"), "Done")
}

func testList() *item.List {
	list := &item.List{Path: "/photos"}
	list.Add(item.FileItem{Path: "/photos/a.jpg", Timestamp: 0, TakeOver: true, Similar: []int{1}})
	list.Add(item.FileItem{Path: "/photos/b.jpg", Timestamp: 1, TakeOver: false, Similar: []int{0}})
	list.Add(item.FileItem{Path: "/photos/c.jpg", Timestamp: 500, TakeOver: true})
	return list
}

func TestReporterGroups(t *testing.T) {
	var out bytes.Buffer
	Reporter{W: &out, Theme: DefaultTheme()}.Groups(testList())
	assert.Equal(t,
		"group 1 (2 items)\n"+
			"  + a.jpg  1970-01-01 00:00:00\n"+
			"  - b.jpg  1970-01-01 00:00:01\n",
		out.String())
}

func TestReporterScanSummaryAndEvents(t *testing.T) {
	var out bytes.Buffer
	list := testList()
	r := Reporter{W: &out, Theme: DefaultTheme()}

	r.ScanSummary(list, 2)
	assert.Equal(t, "/photos  items 3  kept 2  discarded 1  groups 1  events 0  hashed 2\n", out.String())

	out.Reset()
	r.Events(list)
	assert.Equal(t, "no events\n", out.String())

	ev, err := item.NewEvent("Trip", "2021-09-14", "")
	require.NoError(t, err)
	list.AddEvent(ev)
	out.Reset()
	r.Events(list)
	assert.Equal(t, "2021-09-14 Trip\n", out.String())
}

package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/sieve/internal/stats"
)

// CompletionSummary builds the final line of a sieve run, e.g.
//
//	done ✓  copied 120  deleted 14  size 1.2 GiB  avg 98.0 MiB/s  time 12s  errors 0
//
// Zero counters other than errors are left out.
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.FilesFailed > 0 {
		icon = "✗"
	}

	parts := []string{"done " + icon}
	for _, c := range []struct {
		label string
		n     int64
	}{
		{"copied", snap.FilesCopied},
		{"moved", snap.FilesMoved},
		{"deleted", snap.FilesDeleted},
		{"dirs", snap.DirsCreated},
		{"verified", snap.FilesVerified},
		{"duplicates", snap.Duplicates},
	} {
		if c.n > 0 {
			parts = append(parts, c.label+" "+FormatCount(c.n))
		}
	}

	if snap.BytesCopied > 0 {
		parts = append(parts, "size "+FormatBytes(snap.BytesCopied))
		if secs := snap.Elapsed.Seconds(); secs > 0 {
			parts = append(parts, "avg "+FormatRate(float64(snap.BytesCopied)/secs))
		}
	}
	parts = append(parts,
		"time "+FormatDuration(snap.Elapsed),
		fmt.Sprintf("errors %d", snap.FilesFailed))
	return strings.Join(parts, "  ")
}

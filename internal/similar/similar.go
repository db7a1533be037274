// Package similar groups file items that were taken close together in time
// or that look alike. Both passes only add links; callers reset similar
// sets before re-clustering from scratch.
package similar

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bamsammich/sieve/internal/item"
)

// ErrUnknownSensitivity is returned for an unrecognized sensitivity name.
var ErrUnknownSensitivity = errors.New("unknown sensitivity")

// DefaultMaxDiffSeconds and DefaultMaxDiffHash are the thresholds used
// when nothing is configured.
const (
	DefaultMaxDiffSeconds = 5
	DefaultMaxDiffHash    = 8
)

// Sensitivities maps preset names to hash distance thresholds. A higher
// sensitivity means a smaller threshold.
var Sensitivities = []struct {
	Name    string
	MaxDiff int
}{
	{"very low", 10},
	{"low", 8},
	{"medium", 7},
	{"high", 6},
	{"very high", 5},
}

// Sensitivity returns the hash threshold for a preset name. Matching is
// case-insensitive and accepts "-" or "_" in place of spaces.
func Sensitivity(name string) (int, error) {
	n := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name)))
	for _, s := range Sensitivities {
		if s.Name == n {
			return s.MaxDiff, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSensitivity, name)
}

// ByTime links items whose capture times are chained together by gaps of
// at most maxDiffSeconds. items must be sorted by Timestamp. Every item in
// a run is linked to every other item of that run.
func ByTime(items []item.FileItem, maxDiffSeconds int64) {
	start := 0
	for i := 1; i <= len(items); i++ {
		if i < len(items) && items[i].Timestamp-items[i-1].Timestamp <= maxDiffSeconds {
			continue
		}
		if i-start > 1 {
			for j := start; j < i; j++ {
				for k := start; k < i; k++ {
					items[j].Similar = append(items[j].Similar, k)
				}
			}
		}
		start = i
	}
	clean(items)
}

// ByHash links every pair of hashed items whose perceptual distance is
// below maxDiff. Items without a hash never match.
func ByHash(items []item.FileItem, maxDiff int) {
	for i := range items {
		if !items[i].HasHash() {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if items[i].HashDistance(&items[j]) < maxDiff {
				items[i].Similar = append(items[i].Similar, j)
				items[j].Similar = append(items[j].Similar, i)
			}
		}
	}
	clean(items)
}

// clean sorts each similar set, drops duplicates and removes the item's
// own index.
func clean(items []item.FileItem) {
	for i := range items {
		s := items[i].Similar
		slices.Sort(s)
		s = slices.Compact(s)
		if pos, found := slices.BinarySearch(s, i); found {
			s = slices.Delete(s, pos, pos+1)
		}
		items[i].Similar = s
	}
}

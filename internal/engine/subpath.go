package engine

import (
	"fmt"
	"path/filepath"

	"github.com/bamsammich/sieve/internal/item"
)

// SubPath returns the directory components, relative to the target root,
// an item is sieved into. An event covering the item's date takes
// precedence over the date-based layout.
func SubPath(list *item.List, it *item.FileItem, names DirectoryNames) []string {
	if ev, ok := list.EventFor(it); ok {
		return eventSubPath(ev, names)
	}

	t := it.Time()
	switch names {
	case Year:
		return []string{t.Format("2006")}
	case YearMonthAndDay:
		return []string{t.Format("2006-01-02")}
	case YearAndQuarter:
		return []string{fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)}
	case YearAndMonthInSubdirectory:
		return []string{t.Format("2006"), t.Format("01")}
	default:
		return []string{t.Format("2006-01")}
	}
}

func eventSubPath(ev item.Event, names DirectoryNames) []string {
	if names != YearAndMonthInSubdirectory {
		if ev.IsSingleDay() {
			return []string{ev.StartDateString() + " " + ev.Name}
		}
		return []string{fmt.Sprintf("%s - %s %s", ev.StartDateString(), ev.EndDateString(), ev.Name)}
	}

	// Inside the year folder the year is dropped unless the event spans
	// into another one.
	year := ev.Start.Format("2006")
	start := ev.Start.Format("01-02")
	if ev.IsSingleDay() {
		return []string{year, start + " " + ev.Name}
	}
	end := ev.End.Format("01-02")
	if ev.End.Year() != ev.Start.Year() {
		end = ev.EndDateString()
	}
	return []string{year, fmt.Sprintf("%s - %s %s", start, end, ev.Name)}
}

// TargetDir joins root and the item's sub-path.
func TargetDir(root string, list *item.List, it *item.FileItem, names DirectoryNames) string {
	return filepath.Join(append([]string{root}, SubPath(list, it, names)...)...)
}

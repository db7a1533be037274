package item

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// List owns the tracked items of one source directory and the events used
// to file them. After FinishSynchronizing, Items are sorted by Timestamp.
type List struct {
	Items  []FileItem
	Events []Event
	Path   string
}

// Add appends an item. Similar indices of existing items stay valid.
func (l *List) Add(it FileItem) {
	l.Items = append(l.Items, it)
}

// IndexOfPath returns the index of the item with the given path, or -1.
func (l *List) IndexOfPath(path string) int {
	for i := range l.Items {
		if l.Items[i].Path == path {
			return i
		}
	}
	return -1
}

// DrainMissing removes items whose file is gone or that lie outside root.
// Similar indices are invalidated.
func (l *List) DrainMissing(root string) {
	prefix := filepath.Clean(root) + string(filepath.Separator)
	l.Items = slices.DeleteFunc(l.Items, func(it FileItem) bool {
		if !strings.HasPrefix(it.Path, prefix) {
			return true
		}
		_, err := os.Stat(it.Path)
		return err != nil
	})
	l.ResetSimilar()
}

// FinishSynchronizing sorts items by capture time, breaking ties by path,
// and records root as the list's base path. Similar indices are reset
// because positions change.
func (l *List) FinishSynchronizing(root string) {
	sort.SliceStable(l.Items, func(i, j int) bool {
		a, b := &l.Items[i], &l.Items[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.Path < b.Path
	})
	l.Path = root
	l.ResetSimilar()
}

// ResetSimilar clears the similar sets of all items.
func (l *List) ResetSimilar() {
	for i := range l.Items {
		l.Items[i].ResetSimilar()
	}
}

// AddEvent inserts e keeping events ordered by start date.
func (l *List) AddEvent(e Event) {
	i := sort.Search(len(l.Events), func(i int) bool {
		return l.Events[i].Start.After(e.Start)
	})
	l.Events = slices.Insert(l.Events, i, e)
}

// RemoveEvent deletes the first event with the given name.
func (l *List) RemoveEvent(name string) bool {
	for i := range l.Events {
		if l.Events[i].Name == name {
			l.Events = slices.Delete(l.Events, i, i+1)
			return true
		}
	}
	return false
}

// EventFor returns the first event whose range covers the item's date.
func (l *List) EventFor(it *FileItem) (Event, bool) {
	date := it.Date()
	for _, e := range l.Events {
		if e.Contains(date) {
			return e, true
		}
	}
	return Event{}, false
}

// Kept returns the number of items marked to be taken over.
func (l *List) Kept() int {
	n := 0
	for i := range l.Items {
		if l.Items[i].TakeOver {
			n++
		}
	}
	return n
}

// Discarded returns the number of items marked to be left behind.
func (l *List) Discarded() int {
	return len(l.Items) - l.Kept()
}

// Groups returns the connected groups of similar items with at least two
// members, each sorted by index. Groups are ordered by their first index.
func (l *List) Groups() [][]int {
	seen := make([]bool, len(l.Items))
	var groups [][]int
	for start := range l.Items {
		if seen[start] || len(l.Items[start].Similar) == 0 {
			continue
		}
		var group []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, cur)
			for _, n := range l.Items[cur].Similar {
				if n >= 0 && n < len(l.Items) && !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		if len(group) > 1 {
			slices.Sort(group)
			groups = append(groups, group)
		}
	}
	return groups
}

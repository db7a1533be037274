// Package persist stores the review state of a photo tree in a JSON
// sidecar file at the tree's root, so keep/discard decisions, cached
// hashes and events survive between runs.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bamsammich/sieve/internal/item"
)

// FileName is the sidecar's name inside the scanned root.
const FileName = "image_sieve.json"

// Sidecar is the on-disk document.
type Sidecar struct {
	Path   string  `json:"path"`
	Items  []Entry `json:"item_list"`
	Events []Event `json:"event_list"`
}

// Entry is the stored state of one file. FileName is relative to the
// root; absolute names written by older versions are accepted on load.
type Entry struct {
	FileName string `json:"file_name"`
	TakeOver bool   `json:"take_over"`
	Hash     string `json:"hash"`
}

// Event is an item.Event with dates in item.DateLayout.
type Event struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PathFor returns the sidecar location for root.
func PathFor(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the sidecar of root. A missing file yields an empty sidecar
// and no error.
func Load(root string) (*Sidecar, error) {
	data, err := os.ReadFile(PathFor(root))
	if errors.Is(err, fs.ErrNotExist) {
		return &Sidecar{Path: root}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	var s Sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", PathFor(root), err)
	}
	return &s, nil
}

// AbsPath resolves a stored file name against root.
func AbsPath(root, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(root, filepath.FromSlash(name))
}

// Len returns the number of stored entries.
func (s *Sidecar) Len() int {
	return len(s.Items)
}

// ItemEvents converts the stored events. Events that no longer parse are
// returned as errors alongside the valid ones.
func (s *Sidecar) ItemEvents() ([]item.Event, error) {
	events := make([]item.Event, 0, len(s.Events))
	var errs []error
	for _, e := range s.Events {
		ev, err := item.NewEvent(e.Name, e.StartDate, e.EndDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: %w", e.Name, err))
			continue
		}
		events = append(events, ev)
	}
	return events, errors.Join(errs...)
}

// FromList builds the sidecar for list, storing file names relative to
// list.Path.
func FromList(list *item.List) *Sidecar {
	s := &Sidecar{
		Path:   list.Path,
		Items:  make([]Entry, 0, len(list.Items)),
		Events: make([]Event, 0, len(list.Events)),
	}
	for i := range list.Items {
		it := &list.Items[i]
		name := it.Path
		if rel, err := filepath.Rel(list.Path, it.Path); err == nil {
			name = filepath.ToSlash(rel)
		}
		s.Items = append(s.Items, Entry{FileName: name, TakeOver: it.TakeOver, Hash: it.Hash.String()})
	}
	for _, e := range list.Events {
		s.Events = append(s.Events, Event{Name: e.Name, StartDate: e.StartDateString(), EndDate: e.EndDateString()})
	}
	return s
}

// Save writes list's sidecar into list.Path atomically.
func Save(list *item.List) error {
	data, err := json.MarshalIndent(FromList(list), "", "    ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	return writeAtomic(PathFor(list.Path), append(data, '\n'))
}

// writeAtomic replaces path with data through a temporary file in the
// same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sidecar-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close sidecar: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace sidecar: %w", err)
	}
	ok = true
	return nil
}

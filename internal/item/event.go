package item

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrEventRange  = errors.New("event ends before it starts")
)

// DateLayout is the canonical rendering of event dates.
const DateLayout = "2006-01-02"

// Accepted input layouts. Single-digit fields also accept zero padding.
var dateLayouts = []string{"2006-1-2", "2.1.2006"}

// ParseDate parses a calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Event is a named, inclusive range of calendar days. Files taken during
// an event are filed under the event instead of their date bucket.
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

// NewEvent parses start and end into an Event. An empty end means a
// single-day event.
func NewEvent(name, start, end string) (Event, error) {
	var e Event
	if err := e.Update(name, start, end); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Update replaces the event's fields. The event is unchanged on error.
func (e *Event) Update(name, start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	en := s
	if strings.TrimSpace(end) != "" {
		if en, err = ParseDate(end); err != nil {
			return fmt.Errorf("end date: %w", err)
		}
	}
	if en.Before(s) {
		return fmt.Errorf("%w: %s > %s", ErrEventRange, s.Format(DateLayout), en.Format(DateLayout))
	}
	e.Name = strings.TrimSpace(name)
	e.Start = s
	e.End = en
	return nil
}

// Contains reports whether the UTC calendar date of t is within the event.
func (e Event) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(e.Start) && !d.After(e.End)
}

// IsSingleDay reports whether the event starts and ends on the same day.
func (e Event) IsSingleDay() bool {
	return e.Start.Equal(e.End)
}

func (e Event) StartDateString() string { return e.Start.Format(DateLayout) }
func (e Event) EndDateString() string   { return e.End.Format(DateLayout) }

func (e Event) String() string {
	if e.IsSingleDay() {
		return fmt.Sprintf("%s %s", e.StartDateString(), e.Name)
	}
	return fmt.Sprintf("%s - %s %s", e.StartDateString(), e.EndDateString(), e.Name)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package engine

import (
	"fmt"
	"strings"
)

// Method selects what the sieve does with kept and discarded items.
type Method int

const (
	Copy          Method = iota // copy kept items, leave sources in place
	Move                        // move kept items, leave discarded in place
	MoveAndDelete               // move kept items, delete discarded ones
	Delete                      // delete discarded items, keep the rest in place
)

var methodNames = [...]string{
	Copy:          "copy",
	Move:          "move",
	MoveAndDelete: "move-and-delete",
	Delete:        "delete",
}

func (m Method) String() string {
	if m >= 0 && int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod resolves a method name as printed by Method.String.
// Underscores and case are ignored.
func ParseMethod(s string) (Method, error) {
	key := normalizeName(s)
	for m, name := range methodNames {
		if name == key {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("unknown sieve method %q (want one of %s)", s, strings.Join(methodNames[:], ", "))
}

// DirectoryNames is the folder layout used for items outside any event.
type DirectoryNames int

const (
	YearAndMonth DirectoryNames = iota
	Year
	YearMonthAndDay
	YearAndQuarter
	YearAndMonthInSubdirectory
)

var directoryNames = [...]string{
	YearAndMonth:               "year-month",
	Year:                       "year",
	YearMonthAndDay:            "year-month-day",
	YearAndQuarter:             "year-quarter",
	YearAndMonthInSubdirectory: "year/month",
}

func (d DirectoryNames) String() string {
	if d >= 0 && int(d) < len(directoryNames) {
		return directoryNames[d]
	}
	return fmt.Sprintf("DirectoryNames(%d)", int(d))
}

// ParseDirectoryNames resolves a layout name as printed by
// DirectoryNames.String.
func ParseDirectoryNames(s string) (DirectoryNames, error) {
	key := normalizeName(s)
	for d, name := range directoryNames {
		if name == key {
			return DirectoryNames(d), nil
		}
	}
	return 0, fmt.Errorf("unknown directory layout %q (want one of %s)", s, strings.Join(directoryNames[:], ", "))
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

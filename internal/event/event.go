package event

import (
	"fmt"
	"time"
)

// Type identifies the kind of event.
type Type int

const (
	SieveStarted Type = iota + 1
	DirCreated
	FileCopied
	FileMoved
	FileDeleted
	FileFailed
	Done
)

var typeNames = [...]string{
	SieveStarted: "SieveStarted",
	DirCreated:   "DirCreated",
	FileCopied:   "FileCopied",
	FileMoved:    "FileMoved",
	FileDeleted:  "FileDeleted",
	FileFailed:   "FileFailed",
	Done:         "Done",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Action is the operation a FileFailed event was attempting.
type Action int

const (
	Copy Action = iota + 1
	Move
	Delete
	CreateDir
)

var actionVerbs = [...]string{
	Copy:      "copying",
	Move:      "moving",
	Delete:    "deleting",
	CreateDir: "creating directory",
}

func (a Action) String() string {
	if a > 0 && int(a) < len(actionVerbs) {
		return actionVerbs[a]
	}
	return "processing"
}

// Event represents a single progress event from the sieve engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source file, or directory for DirCreated
	Dst       string // destination for FileCopied and FileMoved
	Size      int64  // bytes written for FileCopied and FileMoved
	Total     int    // items to process (SieveStarted)
	Action    Action // failed operation (FileFailed)
	Error     error
}

// IsError reports whether the event describes a failure.
func (e Event) IsError() bool {
	return e.Type == FileFailed
}

// String renders the event as one line of the progress log.
func (e Event) String() string {
	switch e.Type {
	case SieveStarted:
		return fmt.Sprintf("Sieving %d items into %s", e.Total, e.Dst)
	case DirCreated:
		return "Create " + e.Path
	case FileCopied, FileMoved:
		return e.Path + " -> " + e.Dst
	case FileDeleted:
		return "Delete " + e.Path
	case FileFailed:
		return fmt.Sprintf("Error %s %s: %v", e.Action, e.Path, e.Error)
	case Done:
		return "Done"
	default:
		return e.Type.String() + " " + e.Path
	}
}

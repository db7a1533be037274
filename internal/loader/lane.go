package loader

import (
	"slices"
	"sync"

	"github.com/bamsammich/sieve/internal/item"
)

type command struct {
	item      item.FileItem
	maxWidth  int
	maxHeight int
	done      DoneFunc
}

// lane is a mutex-guarded queue plus a wake channel. The channel only
// says "something changed"; commands live in the queue.
type lane struct {
	name  string
	mu    sync.Mutex
	queue []command
	wake  chan struct{}
}

func newLane(name string) *lane {
	return &lane{name: name, wake: make(chan struct{}, 1)}
}

func (ln *lane) signal() {
	select {
	case ln.wake <- struct{}{}:
	default:
	}
}

// replace drops everything queued and leaves cmd as the only entry.
func (ln *lane) replace(cmd command) {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.queue = append(ln.queue[:0:0], cmd)
}

func (ln *lane) pushBack(cmd command) {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.queue = append(ln.queue, cmd)
}

// pushBackUnique appends cmd unless a command for the same path is queued.
func (ln *lane) pushBackUnique(cmd command) bool {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	if slices.ContainsFunc(ln.queue, func(c command) bool { return c.item.Path == cmd.item.Path }) {
		return false
	}
	ln.queue = append(ln.queue, cmd)
	return true
}

func (ln *lane) pop() (command, bool) {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	if len(ln.queue) == 0 {
		return command{}, false
	}
	cmd := ln.queue[0]
	ln.queue[0] = command{}
	ln.queue = ln.queue[1:]
	return cmd, true
}

func (ln *lane) clear() {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.queue = nil
}

func (ln *lane) len() int {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	return len(ln.queue)
}

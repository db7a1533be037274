package engine

import (
	"os"
	"sync"
)

// Temporary copy targets are tracked so an interrupted run can remove
// them before exiting.
var pendingTmp = struct {
	sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

// RegisterTmp records a temporary file created by a copy in progress.
func RegisterTmp(path string) {
	pendingTmp.Lock()
	pendingTmp.paths[path] = struct{}{}
	pendingTmp.Unlock()
}

// DeregisterTmp forgets a temporary file that was renamed or removed.
func DeregisterTmp(path string) {
	pendingTmp.Lock()
	delete(pendingTmp.paths, path)
	pendingTmp.Unlock()
}

// CleanupTmpFiles removes every temporary file still registered and
// returns how many there were.
func CleanupTmpFiles() int {
	pendingTmp.Lock()
	paths := make([]string, 0, len(pendingTmp.paths))
	for p := range pendingTmp.paths {
		paths = append(paths, p)
	}
	clear(pendingTmp.paths)
	pendingTmp.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
	return len(paths)
}

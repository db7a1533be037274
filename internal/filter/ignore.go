package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadIgnoreFile appends the rules of root/.sieveignore. Each line is a
// pattern; "!pattern" admits instead of skipping and "#" starts a comment.
// A missing file adds nothing.
func (r *Rules) LoadIgnoreFile(root string) error {
	path := filepath.Join(root, IgnoreFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if pattern, ok := strings.CutPrefix(line, "!"); ok {
			err = r.Include(pattern)
		} else {
			err = r.Exclude(line)
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
	}
	return sc.Err()
}

// Package filter decides which paths of a photo tree take part in a scan.
// Rules are glob patterns evaluated in order against the path relative to
// the scan root; the first rule that matches decides. Paths matched by no
// rule are scanned.
package filter

import "fmt"

// IgnoreFile is the per-root rules file read by LoadIgnoreFile.
const IgnoreFile = ".sieveignore"

type rule struct {
	glob    *glob
	include bool
}

// Rules is an ordered list of include and exclude patterns plus a
// minimum file size.
type Rules struct {
	rules   []rule
	minSize int64
}

// New returns an empty rule set that admits everything.
func New() *Rules {
	return &Rules{}
}

// Exclude appends a rule that skips paths matching pattern.
func (r *Rules) Exclude(pattern string) error {
	return r.add(pattern, false)
}

// Include appends a rule that admits paths matching pattern, shadowing
// exclude rules added after it.
func (r *Rules) Include(pattern string) error {
	return r.add(pattern, true)
}

func (r *Rules) add(pattern string, include bool) error {
	g, err := compileGlob(pattern)
	if err != nil {
		return fmt.Errorf("pattern %q: %w", pattern, err)
	}
	r.rules = append(r.rules, rule{glob: g, include: include})
	return nil
}

// SetMinSize skips regular files smaller than n bytes. Zero disables it.
func (r *Rules) SetMinSize(n int64) {
	r.minSize = n
}

// Len returns the number of pattern rules.
func (r *Rules) Len() int {
	return len(r.rules)
}

// Admit reports whether rel should be scanned. For directories a false
// result prunes the whole subtree.
func (r *Rules) Admit(rel string, isDir bool, size int64) bool {
	if r == nil {
		return true
	}
	if !isDir && r.minSize > 0 && size < r.minSize {
		return false
	}
	for _, ru := range r.rules {
		if ru.glob.match(rel, isDir) {
			return ru.include
		}
	}
	return true
}

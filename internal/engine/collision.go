package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrDestinationExists is returned when the destination already holds a
// byte-identical copy of the source.
var ErrDestinationExists = errors.New("destination file already exists")

// resolveTarget returns the path src should be written to. While the
// candidate exists with different content, an underscore is inserted
// before the extension. An identical candidate yields ErrDestinationExists.
func resolveTarget(fsys FileSystem, src, dst string) (string, error) {
	for fsys.Exists(dst) {
		same, err := fsys.Identical(src, dst)
		if err != nil {
			return "", fmt.Errorf("compare with %s: %w", dst, err)
		}
		if same {
			return "", fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
		dst = disambiguate(dst)
	}
	return dst, nil
}

// disambiguate turns "dir/name.ext" into "dir/name_.ext".
func disambiguate(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	if ext == base {
		// dotfile without a separate extension
		ext = ""
	}
	return dir + strings.TrimSuffix(base, ext) + "_" + ext
}

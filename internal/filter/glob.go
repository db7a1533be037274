package filter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// glob is a gitignore-flavoured pattern:
//
//	*.xmp        any file named *.xmp at any depth
//	/Trash       only at the root
//	raw/*.dng    slash inside the pattern anchors it to the root
//	**/cache     any number of leading directories
//	thumbs/      directories only
type glob struct {
	re      *regexp.Regexp
	dirOnly bool
}

func compileGlob(pattern string) (*glob, error) {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	g := &glob{}
	if cut, ok := strings.CutSuffix(p, "/"); ok {
		g.dirOnly = true
		p = cut
	}

	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")

	prefix := "(^|/)"
	if anchored {
		prefix = "^"
	}
	re, err := regexp.Compile(prefix + translate(p) + "$")
	if err != nil {
		return nil, err
	}
	g.re = re
	return g, nil
}

func (g *glob) match(rel string, isDir bool) bool {
	if g.dirOnly && !isDir {
		return false
	}
	return g.re.MatchString(filepath.ToSlash(rel))
}

// translate rewrites glob syntax into an unanchored regular expression.
func translate(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		switch c := p[i]; c {
		case '*':
			if strings.HasPrefix(p[i:], "**/") {
				b.WriteString("(.*/)?")
				i += 2
			} else if strings.HasPrefix(p[i:], "**") {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '[':
			end := strings.IndexByte(p[i+1:], ']')
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class := p[i+1 : i+1+end]
			if rest, ok := strings.CutPrefix(class, "!"); ok {
				class = "^" + rest
			}
			b.WriteString("[" + class + "]")
			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// Package ignore reads .pyreviewignore files: one glob per line, blank lines
// and # comments skipped. A trailing slash ignores a directory at any depth.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up at the root of a directory review.
const FileName = ".pyreviewignore"

// Matcher reports whether a slash-separated relative path is ignored.
type Matcher struct {
	dirs  []string
	globs []string
}

// Load parses the ignore file at p. A missing file yields an empty matcher.
func Load(p string) (Matcher, error) {
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Matcher{}, nil
	}
	if err != nil {
		return Matcher{}, fmt.Errorf("read ignore file: %w", err)
	}
	m, err := Parse(strings.Split(string(b), "\n"))
	if err != nil {
		return Matcher{}, fmt.Errorf("%s: %w", p, err)
	}
	return m, nil
}

// Parse builds a matcher from pattern lines.
func Parse(lines []string) (Matcher, error) {
	var m Matcher
	for _, l := range lines {
		if err := m.add(l); err != nil {
			return Matcher{}, err
		}
	}
	return m, nil
}

func (m *Matcher) add(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	line = strings.TrimPrefix(line, "./")
	if strings.HasSuffix(line, "/") {
		m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
		return nil
	}
	if !doublestar.ValidatePattern(line) {
		return fmt.Errorf("invalid ignore pattern %q", line)
	}
	m.globs = append(m.globs, line)
	return nil
}

// Empty reports whether the matcher has no patterns.
func (m Matcher) Empty() bool { return len(m.dirs) == 0 && len(m.globs) == 0 }

func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	segs := strings.Split(rel, "/")
	for _, d := range m.dirs {
		for i := range segs[:len(segs)-1] {
			if ok, _ := doublestar.Match(d, strings.Join(segs[:i+1], "/")); ok {
				return true
			}
			if ok, _ := doublestar.Match(d, segs[i]); ok {
				return true
			}
		}
	}
	base := path.Base(rel)
	for _, g := range m.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if !strings.Contains(g, "/") {
			if ok, _ := doublestar.Match(g, base); ok {
				return true
			}
		}
	}
	return false
}

// Package templates loads review checklists: markdown documents whose
// "- [ ] item" lines list what a reviewer should look at. Checklists are
// informational and never influence which findings a review reports.
package templates

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// DefaultDir is where templates are looked up when no directory is given.
const DefaultDir = "review_templates"

var reItem = regexp.MustCompile(`- \[ \] (.*)`)

// Set maps a template name (file name without .md) to its checklist items
// in document order.
type Set map[string][]string

// Names returns the template names sorted.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load reads every *.md file directly inside dir. A missing directory is
// logged as a warning and yields an empty set; unreadable files are logged
// and skipped.
func Load(dir string, log *zap.Logger) Set {
	if log == nil {
		log = zap.NewNop()
	}
	set := Set{}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Warn("template directory not found", zap.String("dir", dir))
		return set
	}
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "*.md")
	if err != nil {
		log.Warn("cannot list templates", zap.String("dir", dir), zap.Error(err))
		return set
	}
	for _, name := range matches {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("cannot read template", zap.String("file", name), zap.Error(err))
			}
			continue
		}
		set[strings.TrimSuffix(path.Base(name), ".md")] = Parse(string(b))
	}
	log.Debug("templates loaded", zap.String("dir", dir), zap.Int("count", len(set)))
	return set
}

// Parse extracts the unchecked checklist items from a markdown document.
func Parse(doc string) []string {
	items := []string{}
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")
	for _, m := range reItem.FindAllStringSubmatch(doc, -1) {
		items = append(items, m[1])
	}
	return items
}

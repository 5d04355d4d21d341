package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

var defaultExcludeDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	"__pycache__":   true,
	".tox":          true,
	".nox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	"node_modules":  true,
	"site-packages": true,
	"build":         true,
	"dist":          true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasSuffix(name, ".egg-info")
}

// allowedByGlobs reports whether rel passes the include and exclude globs.
// Include globs act as a positive filter (DefaultInclude when empty) and
// exclude globs are subtracted last.
func allowedByGlobs(rel string, cfg WalkConfig) bool {
	includes := parseGlobsList(cfg.IncludeGlobs)
	if len(includes) == 0 {
		includes = parseGlobsList(DefaultInclude)
	}
	if !matchAnyGlob(rel, includes) {
		return false
	}
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	return !matchAnyGlob(rel, excludes)
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

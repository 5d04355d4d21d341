package engine

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/varalys/pyreview/internal/ignore"
	"github.com/varalys/pyreview/internal/types"
)

// DefaultInclude selects the files a directory review looks at.
const DefaultInclude = "**/*.py"

// ignoreFileMarker anywhere in a file skips it during directory reviews.
const ignoreFileMarker = "pyreview:ignore-file"

// WalkConfig controls which files a directory review visits.
type WalkConfig struct {
	Root            string
	IncludeGlobs    string // comma-separated; empty means DefaultInclude
	ExcludeGlobs    string // comma-separated
	MaxBytes        int64  // <= 0 means no limit
	DefaultExcludes bool
	Progress        func()
}

// FileResult holds the findings for one reviewed file.
type FileResult struct {
	Path     string
	Findings []types.Finding
}

// Result contains per-file findings and basic walk statistics.
type Result struct {
	Files    []FileResult
	Skipped  int
	Duration time.Duration
}

// Findings flattens the per-file results in walk order.
func (r Result) Findings() []types.Finding {
	var out []types.Finding
	for _, f := range r.Files {
		out = append(out, f.Findings...)
	}
	return out
}

// ReviewTree walks cfg.Root and analyzes every eligible file on its own.
// Files are processed one at a time in lexical order.
func (a *Analyzer) ReviewTree(ctx context.Context, cfg WalkConfig) (Result, error) {
	var res Result
	started := time.Now()
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil {
		return res, err
	}
	if !ign.Empty() {
		a.log.Debug("using ignore file", zap.String("path", filepath.Join(cfg.Root, ignore.FileName)))
	}
	err = Walk(ctx, cfg, ign, func(rel string, data []byte) {
		p := filepath.Join(cfg.Root, rel)
		res.Files = append(res.Files, FileResult{Path: p, Findings: a.AnalyzeContent(p, string(data))})
		if cfg.Progress != nil {
			cfg.Progress()
		}
	}, func(rel, reason string) {
		res.Skipped++
		a.log.Debug("skipped", zap.String("path", rel), zap.String("reason", reason))
	})
	res.Duration = time.Since(started)
	return res, err
}

// Walk traverses cfg.Root and invokes handle for each eligible file with its
// slash-separated path relative to the root. skip, when non-nil, is told
// about files that matched the include globs but were not handed out.
func Walk(ctx context.Context, cfg WalkConfig, ign ignore.Matcher, handle func(rel string, data []byte), skip func(rel, reason string)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if skip == nil {
		skip = func(string, string) {}
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if p == cfg.Root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		rel = filepath.ToSlash(rel)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if !ign.Empty() && ign.Match(rel) {
			skip(rel, "ignored")
			return nil
		}
		if info, _ := d.Info(); info != nil && cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
			skip(rel, "too large")
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			skip(rel, "unreadable")
			return nil
		}
		if strings.Contains(string(b), ignoreFileMarker) {
			skip(rel, "ignore-file marker")
			return nil
		}
		if looksBinary(b) {
			skip(rel, "binary")
			return nil
		}
		handle(rel, b)
		return nil
	})
}

func looksBinary(b []byte) bool {
	const sniff = 800
	if len(b) > sniff {
		b = b[:sniff]
	}
	return bytes.IndexByte(b, 0) >= 0
}

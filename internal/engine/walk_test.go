package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/varalys/pyreview/internal/ignore"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestWalk_DefaultsToPythonFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app.py":               "x = 1\n",
		"pkg/util.py":          "y = 2\n",
		"README.md":            "docs",
		".venv/lib/site.py":    "z = 3\n",
		"pkg/__pycache__/a.py": "cached\n",
		"blob.py":              "x\x00y",
		"skipme.py":            "# pyreview:ignore-file\n",
	})
	var got []string
	skipped := map[string]string{}
	cfg := WalkConfig{Root: dir, DefaultExcludes: true}
	err := Walk(context.Background(), cfg, ignore.Matcher{},
		func(rel string, _ []byte) { got = append(got, rel) },
		func(rel, reason string) { skipped[rel] = reason })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "app.py" || got[1] != "pkg/util.py" {
		t.Fatalf("unexpected files %v", got)
	}
	if skipped["blob.py"] != "binary" || skipped["skipme.py"] != "ignore-file marker" {
		t.Fatalf("unexpected skip reasons %v", skipped)
	}
}

func TestWalk_WithIncludeExcludeGlobs(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py":            "a = 1\n",
		"tests/test_a.py": "assert True\n",
		"scripts/run":     "#!/usr/bin/env python\n",
	})

	var got []string
	cfg := WalkConfig{Root: dir, ExcludeGlobs: "tests/**"}
	if err := Walk(nil, cfg, ignore.Matcher{}, func(rel string, _ []byte) { got = append(got, rel) }, nil); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "a.py" {
		t.Fatalf("exclude globs failed, got %v", got)
	}

	got = nil
	cfg = WalkConfig{Root: dir, IncludeGlobs: "scripts/*"}
	if err := Walk(nil, cfg, ignore.Matcher{}, func(rel string, _ []byte) { got = append(got, rel) }, nil); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "scripts/run" {
		t.Fatalf("include globs failed, got %v", got)
	}
}

func TestWalk_IgnoreFileAndMaxBytes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"keep.py":            "k = 1\n",
		"big.py":             "# 0123456789012345678901234567890123456789\n",
		"migrations/0001.py": "m = 1\n",
		ignore.FileName:      "migrations/\n",
	})
	ign, err := ignore.Load(filepath.Join(dir, ignore.FileName))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	skipped := map[string]string{}
	cfg := WalkConfig{Root: dir, MaxBytes: 16}
	err = Walk(context.Background(), cfg, ign,
		func(rel string, _ []byte) { got = append(got, rel) },
		func(rel, reason string) { skipped[rel] = reason })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "keep.py" {
		t.Fatalf("unexpected files %v", got)
	}
	if skipped["big.py"] != "too large" || skipped["migrations/0001.py"] != "ignored" {
		t.Fatalf("unexpected skip reasons %v", skipped)
	}
}

func TestWalk_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "a = 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Walk(ctx, WalkConfig{Root: dir}, ignore.Matcher{}, func(string, []byte) {}, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	err := Walk(context.Background(), WalkConfig{Root: filepath.Join(t.TempDir(), "nope")}, ignore.Matcher{}, func(string, []byte) {}, nil)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestReviewTree(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py":     "try:\n    x()\nexcept:\n    pass\n",
		"b/c.py":   "password = 'hunter2'\n",
		"b/ok.py":  "value = 1\n",
		"notes.md": "except:\n",
	})
	a, _ := newAnalyzer(t, nil)
	var progress int
	res, err := a.ReviewTree(context.Background(), WalkConfig{Root: dir, DefaultExcludes: true, Progress: func() { progress++ }})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 3 || progress != 3 {
		t.Fatalf("want 3 files reviewed, got %d (progress %d)", len(res.Files), progress)
	}
	if res.Files[0].Path != filepath.Join(dir, "a.py") {
		t.Fatalf("unexpected first path %s", res.Files[0].Path)
	}
	all := res.Findings()
	if len(all) != 2 || all[0].Rule != "bare-except" || all[1].Rule != "hardcoded-credential" {
		t.Fatalf("unexpected findings %+v", all)
	}
	if len(res.Files[2].Findings) != 0 {
		t.Fatalf("clean file should have no findings")
	}
}

func TestReviewTree_IgnoreFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		ignore.FileName:      "migrations/\r\n",
		"app.py":             "value = 1\n",
		"migrations/0001.py": "except:\n",
	})
	a, logs := newAnalyzer(t, nil)
	res, err := a.ReviewTree(context.Background(), WalkConfig{Root: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 1 || res.Skipped != 1 {
		t.Fatalf("want 1 file reviewed and 1 skipped, got %d/%d", len(res.Files), res.Skipped)
	}
	if logs.FilterMessage("using ignore file").Len() != 1 {
		t.Fatal("ignore file use not logged")
	}
}

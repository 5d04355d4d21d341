package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeFile_Smoke(t *testing.T) {
	p := filepath.Join(t.TempDir(), "app.py")
	src := "try:\n    run()\nexcept:\n    pass\n"
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	findings := AnalyzeFile(p)
	if len(findings) != 1 || findings[0].Rule != "bare-except" || findings[0].Line != 3 {
		t.Fatalf("unexpected findings %+v", findings)
	}
	if ids := RuleIDs(); len(ids) == 0 {
		t.Fatal("expected non-empty rule IDs")
	}
}

func TestAnalyzeFile_Missing(t *testing.T) {
	got := AnalyzeFile(filepath.Join(t.TempDir(), "nope.py"))
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestGenerateReview_SecurityTemplate(t *testing.T) {
	p := filepath.Join(t.TempDir(), "db.py")
	src := "password = \"hunter22\"\nprint(password)\n"
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := GenerateReview(p, "security")
	if !strings.HasPrefix(out, "# Code Review for db.py\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "**[HIGH]** Line 1:") {
		t.Fatalf("credential finding missing:\n%s", out)
	}
	if strings.Contains(out, "print") {
		t.Fatalf("security template should drop code quality findings:\n%s", out)
	}
}

func TestFindingsJSONRoundTrip(t *testing.T) {
	in := AnalyzeContent("x.py", "except:\n")
	var buf bytes.Buffer
	if err := MarshalFindings(&buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalFindings(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip lost findings: %d vs %d", len(out), len(in))
	}
}

package report

import (
	"testing"

	"github.com/varalys/pyreview/internal/types"
)

var sample = []types.Finding{
	{Path: "src/app.py", Line: 10, Category: types.CatSecurity, Rule: "bare-except", Message: "Bare except clause found. Specify exceptions to catch.", Severity: types.SevMed},
	{Path: "src/app.py", Line: 0, Category: types.CatPerformance, Rule: "unclosed-file", Message: "File handle may not be closed properly. Use 'with' statement.", Severity: types.SevMed},
	{Path: "src/app.py", Line: 4, Category: types.CatQuality, Rule: "debug-print", Message: "Debug print statement found. Consider using proper logging.", Severity: types.SevLow},
}

func TestRenderReview_General(t *testing.T) {
	got := RenderReview("src/app.py", "general", sample)
	want := "# Code Review for app.py\n\n" +
		"Using the general template.\n\n" +
		"## Issues Found\n\n" +
		"- **[MEDIUM]** Line 10: Bare except clause found. Specify exceptions to catch.\n" +
		"- **[MEDIUM]** File handle may not be closed properly. Use 'with' statement.\n" +
		"- **[LOW]** Line 4: Debug print statement found. Consider using proper logging.\n"
	if got != want {
		t.Fatalf("review mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderReview_SecurityOnly(t *testing.T) {
	got := RenderReview("app.py", "security", sample)
	want := "# Code Review for app.py\n\n" +
		"Using the security template.\n\n" +
		"## Issues Found\n\n" +
		"- **[MEDIUM]** Line 10: Bare except clause found. Specify exceptions to catch.\n"
	if got != want {
		t.Fatalf("review mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderReview_NoIssues(t *testing.T) {
	got := RenderReview("/tmp/x/clean.py", "performance", sample[:1])
	want := "# Code Review for clean.py\n\n" +
		"Using the performance template.\n\n" +
		"No issues found based on the selected template.\n"
	if got != want {
		t.Fatalf("review mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderReview_Pure(t *testing.T) {
	a := RenderReview("a/b.py", "general", sample)
	b := RenderReview("other/dir/b.py", "general", append([]types.Finding(nil), sample...))
	if a != b {
		t.Fatal("rendering should depend only on findings, template and basename")
	}
}

func TestMatchesTemplate(t *testing.T) {
	cases := []struct {
		cat  types.Category
		tmpl string
		want bool
	}{
		{types.CatSecurity, "general", true},
		{types.CatQuality, "", true},
		{types.CatSecurity, "security", true},
		{types.CatPerformance, "security", false},
		{types.CatPerformance, "security,performance", true},
		{types.CatQuality, "performance", false},
		{types.CatQuality, "code_quality", true},
	}
	for _, c := range cases {
		if got := MatchesTemplate(c.cat, c.tmpl); got != c.want {
			t.Fatalf("MatchesTemplate(%s,%q)=%v want %v", c.cat, c.tmpl, got, c.want)
		}
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := Filter(sample, "security,code_quality")
	if len(got) != 2 || got[0].Rule != "bare-except" || got[1].Rule != "debug-print" {
		t.Fatalf("unexpected filter result %+v", got)
	}
}

type fakeAnalyzer []types.Finding

func (f fakeAnalyzer) AnalyzeFile(string) []types.Finding { return f }

func TestGenerateReview(t *testing.T) {
	got := GenerateReview(fakeAnalyzer(sample), "pkg/app.py", "security")
	if got != RenderReview("app.py", "security", sample) {
		t.Fatalf("GenerateReview should render the analyzer's findings, got %q", got)
	}
}

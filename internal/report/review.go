package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/varalys/pyreview/internal/types"
)

// GeneralTemplate selects every category.
const GeneralTemplate = "general"

// MatchesTemplate reports whether findings of category c belong in a review
// using template. The general (or empty) template matches every category;
// any other template matches the categories whose names it contains, so
// "security,performance" selects both.
func MatchesTemplate(c types.Category, template string) bool {
	t := strings.TrimSpace(template)
	if t == "" || t == GeneralTemplate {
		return true
	}
	return strings.Contains(t, string(c))
}

// Filter keeps the findings that match template, preserving order.
func Filter(findings []types.Finding, template string) []types.Finding {
	out := make([]types.Finding, 0, len(findings))
	for _, f := range findings {
		if MatchesTemplate(f.Category, template) {
			out = append(out, f)
		}
	}
	return out
}

// RenderReview renders the markdown review for path. Only findings matching
// template are listed, in their original order. The output depends only on
// the arguments.
func RenderReview(path, template string, findings []types.Finding) string {
	if strings.TrimSpace(template) == "" {
		template = GeneralTemplate
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Code Review for %s\n\n", filepath.Base(path))
	fmt.Fprintf(&b, "Using the %s template.\n\n", template)

	relevant := Filter(findings, template)
	if len(relevant) == 0 {
		b.WriteString("No issues found based on the selected template.\n")
		return b.String()
	}
	b.WriteString("## Issues Found\n\n")
	for _, f := range relevant {
		lineInfo := ""
		if f.Line > 0 {
			lineInfo = fmt.Sprintf("Line %d: ", f.Line)
		}
		fmt.Fprintf(&b, "- **[%s]** %s%s\n", strings.ToUpper(string(f.Severity)), lineInfo, f.Message)
	}
	return b.String()
}

// Analyzer is the part of the engine a review needs.
type Analyzer interface {
	AnalyzeFile(path string) []types.Finding
}

// GenerateReview analyzes path and renders its review.
func GenerateReview(a Analyzer, path, template string) string {
	return RenderReview(path, template, a.AnalyzeFile(path))
}

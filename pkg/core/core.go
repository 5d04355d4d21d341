package core

import (
	"sync"

	"github.com/varalys/pyreview/internal/detectors"
	"github.com/varalys/pyreview/internal/engine"
	"github.com/varalys/pyreview/internal/report"
	"github.com/varalys/pyreview/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type Finding = types.Finding
type Severity = types.Severity
type Category = types.Category

var defaultAnalyzer = sync.OnceValue(func() *engine.Analyzer {
	a, err := engine.New(engine.Options{})
	if err != nil {
		// the built-in rule set always validates
		panic(err)
	}
	return a
})

// AnalyzeFile reviews one Python file with the built-in rules. An unreadable
// path yields an empty result.
func AnalyzeFile(path string) []Finding {
	return defaultAnalyzer().AnalyzeFile(path)
}

// AnalyzeContent reviews source text already in memory; path only labels
// the findings.
func AnalyzeContent(path, content string) []Finding {
	return defaultAnalyzer().AnalyzeContent(path, content)
}

// GenerateReview analyzes path and renders the markdown review for template.
func GenerateReview(path, template string) string {
	return report.GenerateReview(defaultAnalyzer(), path, template)
}

// RenderReview renders already collected findings for template.
func RenderReview(path, template string, findings []Finding) string {
	return report.RenderReview(path, template, findings)
}

// RuleIDs returns the built-in rule IDs in analysis order.
func RuleIDs() []string { return detectors.IDs() }

package detectors

import (
	"fmt"
	"regexp"

	"github.com/varalys/pyreview/internal/pytree"
	"github.com/varalys/pyreview/internal/types"
)

var (
	reOpenCall    = regexp.MustCompile(`open\(.*\)`)
	reConnectCall = regexp.MustCompile(`connect\(.*\)`)
	reCloseCall   = regexp.MustCompile(`close\(\)`)
)

// NestedLoop reports every loop entered while another loop is already open.
// Depth carries through function and class bodies, so a nest of N loops
// yields N-1 findings.
func NestedLoop() Rule {
	return Rule{
		ID:          "nested-loop",
		Scope:       ScopeTree,
		Category:    types.CatPerformance,
		Severity:    types.SevMed,
		Description: "for/while loop nested inside another loop",
		Visit: func(emit Emit) pytree.Visitor {
			depth := 0
			hooks := pytree.Hooks{
				Enter: func(n *pytree.Node) {
					depth++
					if depth > 1 {
						emit(n.Line, fmt.Sprintf("Nested loop (depth %d) detected. Consider optimizing.", depth))
					}
				},
				Leave: func(*pytree.Node) { depth-- },
			}
			return pytree.Visitor{pytree.KindFor: hooks, pytree.KindWhile: hooks}
		},
	}
}

// unclosed builds a whole-file rule: the acquisition call appears somewhere
// and no close() call appears anywhere. Control flow is not considered.
func unclosed(id, desc, msg string, acquire *regexp.Regexp) Rule {
	return Rule{
		ID:          id,
		Scope:       ScopeFile,
		Category:    types.CatPerformance,
		Severity:    types.SevMed,
		Description: desc,
		Message:     msg,
		MatchFile: func(content string) bool {
			return acquire.MatchString(content) && !reCloseCall.MatchString(content)
		},
	}
}

func UnclosedFile() Rule {
	return unclosed("unclosed-file",
		"open() without any close() in the file",
		"File handle may not be closed properly. Use 'with' statement.",
		reOpenCall)
}

func UnclosedConnection() Rule {
	return unclosed("unclosed-connection",
		"connect() without any close() in the file",
		"Database connection may not be closed properly.",
		reConnectCall)
}

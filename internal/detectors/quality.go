package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/varalys/pyreview/internal/pytree"
	"github.com/varalys/pyreview/internal/types"
)

var reCommentedDef = regexp.MustCompile(`^\s*#\s*def\s+|^\s*#\s*class\s+`)

func CommentedOutCode() Rule {
	return Rule{
		ID:          "commented-out-code",
		Scope:       ScopeLine,
		Category:    types.CatQuality,
		Severity:    types.SevLow,
		Description: "comment line starting with def or class",
		Message:     "Commented out code found. Remove if not needed.",
		MatchLine:   reCommentedDef.MatchString,
	}
}

// DebugPrint flags print( calls outside comments when the line mentions
// debug or does not look like logging.
func DebugPrint() Rule {
	return Rule{
		ID:          "debug-print",
		Scope:       ScopeLine,
		Category:    types.CatQuality,
		Severity:    types.SevLow,
		Description: "print() call that looks like leftover debugging",
		Message:     "Debug print statement found. Consider using proper logging.",
		MatchLine: func(line string) bool {
			if !strings.Contains(line, "print(") {
				return false
			}
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "#") {
				return false
			}
			return containsFold(trimmed, "debug") || !containsFold(trimmed, "log")
		},
	}
}

// LongFunction reports functions whose span, from the def line to the last
// line of anything inside them, exceeds threshold.
func LongFunction(threshold int) Rule {
	if threshold <= 0 {
		threshold = DefaultLongFunctionThreshold
	}
	return Rule{
		ID:          "long-function",
		Scope:       ScopeTree,
		Category:    types.CatQuality,
		Severity:    types.SevMed,
		Description: fmt.Sprintf("function body spanning more than %d lines", threshold),
		Visit: func(emit Emit) pytree.Visitor {
			return pytree.Visitor{pytree.KindFunction: {Enter: func(n *pytree.Node) {
				if length := n.MaxLine() - n.Line; length > threshold {
					emit(n.Line, fmt.Sprintf("Function '%s' is %d lines long. Consider breaking it down.", n.Name, length))
				}
			}}}
		},
	}
}

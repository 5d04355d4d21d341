package detectors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/varalys/pyreview/internal/pytree"
	"github.com/varalys/pyreview/internal/types"
)

// Scope selects how a rule looks at a file.
type Scope int

const (
	ScopeLine Scope = iota
	ScopeFile
	ScopeTree
)

func (s Scope) String() string {
	switch s {
	case ScopeLine:
		return "line"
	case ScopeFile:
		return "file"
	case ScopeTree:
		return "tree"
	}
	return "unknown"
}

// Emit records a tree-rule finding at line with the given message.
type Emit func(line int, message string)

// Rule is one review check. Exactly one of MatchLine, MatchFile or Visit is
// set, according to Scope.
type Rule struct {
	ID          string
	Scope       Scope
	Category    types.Category
	Severity    types.Severity
	Description string
	// Message is the finding text for line and file rules. Tree rules build
	// their own messages through Emit.
	Message string

	MatchLine func(line string) bool
	MatchFile func(content string) bool
	Visit     func(emit Emit) pytree.Visitor
}

// Validate checks that the rule can only ever produce well-formed findings.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("rule without id")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %s: unknown severity %q", r.ID, r.Severity)
	}
	switch r.Scope {
	case ScopeLine:
		if r.MatchLine == nil {
			return fmt.Errorf("rule %s: line rule without MatchLine", r.ID)
		}
	case ScopeFile:
		if r.MatchFile == nil {
			return fmt.Errorf("rule %s: file rule without MatchFile", r.ID)
		}
	case ScopeTree:
		if r.Visit == nil {
			return fmt.Errorf("rule %s: tree rule without Visit", r.ID)
		}
		return nil
	default:
		return fmt.Errorf("rule %s: unknown scope %d", r.ID, r.Scope)
	}
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("rule %s: empty message", r.ID)
	}
	return nil
}

func (r Rule) finding(path string, line int, msg string) types.Finding {
	return types.Finding{
		Path:     path,
		Line:     line,
		Category: r.Category,
		Rule:     r.ID,
		Message:  msg,
		Severity: r.Severity,
	}
}

// Check runs the rule on its own. tree may be nil for line and file rules;
// a tree rule given a nil tree reports nothing.
func (r Rule) Check(path, content string, tree *pytree.Node) []types.Finding {
	switch r.Scope {
	case ScopeLine:
		return scanLines(r, path, content)
	case ScopeFile:
		if r.MatchFile(content) {
			return []types.Finding{r.finding(path, 0, r.Message)}
		}
	case ScopeTree:
		if tree == nil {
			return nil
		}
		var out []types.Finding
		pytree.Walk(tree, r.Visit(r.Collector(path, &out)))
		return out
	}
	return nil
}

// Collector returns an Emit that appends this rule's findings to out.
func (r Rule) Collector(path string, out *[]types.Finding) Emit {
	return func(line int, msg string) {
		*out = append(*out, r.finding(path, line, msg))
	}
}

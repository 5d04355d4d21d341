package detectors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/varalys/pyreview/internal/types"
)

// DefaultLongFunctionThreshold is the span above which long-function fires.
const DefaultLongFunctionThreshold = 20

// Options tunes the rules that take parameters.
type Options struct {
	LongFunctionThreshold int
}

// New returns the full rule set in analysis order: security rules, then
// performance rules, then code-quality rules.
func New(opts Options) []Rule {
	return []Rule{
		HardcodedCredential(),
		SQLInjection(),
		BareExcept(),

		NestedLoop(),
		UnclosedFile(),
		UnclosedConnection(),

		CommentedOutCode(),
		DebugPrint(),
		LongFunction(opts.LongFunctionThreshold),
	}
}

// Default is New with default options.
func Default() []Rule { return New(Options{}) }

// IDs lists the rule IDs in analysis order.
func IDs() []string {
	rules := Default()
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.ID)
	}
	return out
}

// Get looks up a default rule by ID.
func Get(id string) (Rule, bool) {
	for _, r := range Default() {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks every rule and rejects duplicate IDs.
func Validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Override adjusts one rule from configuration.
type Override struct {
	Disabled bool
	Severity types.Severity
}

// Configure applies overrides keyed by rule ID, dropping disabled rules and
// replacing severities. Unknown IDs and severities are errors. The input
// slice is not modified.
func Configure(rules []Rule, overrides map[string]Override) ([]Rule, error) {
	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		known[r.ID] = true
	}
	var unknown []string
	for id, o := range overrides {
		if !known[id] {
			unknown = append(unknown, id)
			continue
		}
		if o.Severity != "" && !o.Severity.Valid() {
			return nil, fmt.Errorf("rule %s: unknown severity %q", id, o.Severity)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown rule id(s): %s", strings.Join(unknown, ", "))
	}

	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		o, ok := overrides[r.ID]
		if ok && o.Disabled {
			continue
		}
		if ok && o.Severity != "" {
			r.Severity = o.Severity
		}
		out = append(out, r)
	}
	return out, nil
}

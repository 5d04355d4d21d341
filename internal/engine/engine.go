package engine

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/varalys/pyreview/internal/detectors"
	"github.com/varalys/pyreview/internal/pytree"
	"github.com/varalys/pyreview/internal/types"
)

// Options configures an Analyzer.
type Options struct {
	// Logger receives read failures, parse warnings and rule faults.
	// Defaults to a no-op logger.
	Logger *zap.Logger
	// Rules to run, in order. Defaults to detectors.Default().
	Rules []detectors.Rule
}

// Analyzer runs a fixed rule set over Python source. It holds no per-file
// state and is safe to reuse across calls.
type Analyzer struct {
	log   *zap.Logger
	rules []detectors.Rule
	tree  bool
}

// New validates the rule set and builds an Analyzer.
func New(opts Options) (*Analyzer, error) {
	rules := opts.Rules
	if rules == nil {
		rules = detectors.Default()
	}
	if err := detectors.Validate(rules); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := &Analyzer{log: log, rules: append([]detectors.Rule(nil), rules...)}
	for _, r := range a.rules {
		if r.Scope == detectors.ScopeTree {
			a.tree = true
		}
	}
	return a, nil
}

// Rules returns a copy of the analyzer's rules in run order.
func (a *Analyzer) Rules() []detectors.Rule {
	return append([]detectors.Rule(nil), a.rules...)
}

// AnalyzeFile reads path and analyzes it. A path that cannot be read is
// logged and yields an empty result.
func (a *Analyzer) AnalyzeFile(path string) []types.Finding {
	b, err := os.ReadFile(path)
	if err != nil {
		a.log.Error("cannot read file", zap.String("path", path), zap.Error(err))
		return []types.Finding{}
	}
	return a.AnalyzeContent(path, string(b))
}

// AnalyzeContent runs every rule over content. Findings come back grouped
// by rule in run order, and in line order within a rule. A rule that panics
// contributes nothing for this content; the others still run.
func (a *Analyzer) AnalyzeContent(path, content string) []types.Finding {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	buckets := make([][]types.Finding, len(a.rules))

	for i, r := range a.rules {
		if r.Scope == detectors.ScopeTree {
			continue
		}
		buckets[i] = a.runText(path, content, r)
	}
	if a.tree {
		a.runTree(path, content, buckets)
	}

	out := make([]types.Finding, 0)
	for i, b := range buckets {
		for _, f := range b {
			if err := f.Validate(); err != nil {
				a.log.Error("dropping malformed finding",
					zap.String("path", path), zap.String("rule", a.rules[i].ID), zap.Error(err))
				continue
			}
			out = append(out, f)
		}
	}
	a.log.Debug("analyzed", zap.String("path", path), zap.Int("findings", len(out)))
	return out
}

func (a *Analyzer) runText(path, content string, r detectors.Rule) (out []types.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			a.ruleFault(path, r.ID, rec)
			out = nil
		}
	}()
	return r.Check(path, content, nil)
}

// runTree parses content once and drives every tree rule through a single
// walk. Each hook is guarded: once a rule faults its hooks stop firing and
// its findings are discarded.
func (a *Analyzer) runTree(path, content string, buckets [][]types.Finding) {
	root, err := parseTree(content)
	if err != nil {
		a.log.Warn("could not parse for tree analysis", zap.String("path", path), zap.Error(err))
		return
	}

	failed := make([]bool, len(a.rules))
	var visitors []pytree.Visitor
	for i, r := range a.rules {
		if r.Scope != detectors.ScopeTree {
			continue
		}
		v, ok := a.buildVisitor(path, i, r, buckets, failed)
		if ok {
			visitors = append(visitors, v)
		}
	}
	pytree.Walk(root, visitors...)

	for i := range a.rules {
		if failed[i] {
			buckets[i] = nil
		}
	}
}

// parseTree turns a parser panic into an error so one bad file only loses
// its tree findings.
func parseTree(content string) (root *pytree.Node, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			root, err = nil, fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return pytree.Parse(content)
}

func (a *Analyzer) buildVisitor(path string, i int, r detectors.Rule, buckets [][]types.Finding, failed []bool) (v pytree.Visitor, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			a.ruleFault(path, r.ID, rec)
			failed[i] = true
			v, ok = nil, false
		}
	}()
	inner := r.Visit(r.Collector(path, &buckets[i]))
	v = make(pytree.Visitor, len(inner))
	for kind, h := range inner {
		v[kind] = pytree.Hooks{
			Enter: a.guard(path, r.ID, &failed[i], h.Enter),
			Leave: a.guard(path, r.ID, &failed[i], h.Leave),
		}
	}
	return v, true
}

func (a *Analyzer) guard(path, id string, failed *bool, fn func(*pytree.Node)) func(*pytree.Node) {
	if fn == nil {
		return nil
	}
	return func(n *pytree.Node) {
		if *failed {
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				*failed = true
				a.ruleFault(path, id, rec)
			}
		}()
		fn(n)
	}
}

func (a *Analyzer) ruleFault(path, id string, rec any) {
	a.log.Error("rule failed", zap.String("path", path), zap.String("rule", id), zap.Any("panic", rec))
}

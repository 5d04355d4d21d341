package pyreview

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/varalys/pyreview/internal/engine"
	"github.com/varalys/pyreview/internal/git"
	"github.com/varalys/pyreview/internal/report"
	"github.com/varalys/pyreview/internal/templates"
	"github.com/varalys/pyreview/internal/types"
)

type reviewFlags struct {
	template        string
	format          string
	failOn          string
	rev             string
	copy            bool
	templateDir     string
	include         string
	exclude         string
	maxBytes        int64
	defaultExcludes bool
}

const (
	formatMarkdown = "markdown"
	formatTable    = "table"
	formatJSON     = "json"
	formatSARIF    = "sarif"
)

func newReviewCmd(g *globalFlags) *cobra.Command {
	f := &reviewFlags{}
	cmd := &cobra.Command{
		Use:   "review PATH",
		Short: "Review a Python file or every Python file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, g, f, args[0])
		},
	}
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "review template: general|security|performance|code_quality (default general)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: markdown|table|json|sarif (default markdown)")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "", "exit 1 when a finding is at or above none|low|medium|high (default none)")
	cmd.Flags().StringVar(&f.rev, "rev", "", "review the file as of this git revision")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "also copy the output to the clipboard")
	cmd.Flags().StringVar(&f.templateDir, "template-dir", "", "directory of checklist templates (default "+templates.DefaultDir+")")
	cmd.Flags().StringVar(&f.include, "include", "", "comma-separated include globs for directory reviews")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "comma-separated exclude globs for directory reviews")
	cmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 0, "skip files larger than this in directory reviews (0 = no limit)")
	cmd.Flags().BoolVar(&f.defaultExcludes, "default-excludes", true, "skip virtualenvs, caches and VCS directories")
	return cmd
}

func runReview(cmd *cobra.Command, g *globalFlags, f *reviewFlags, path string) error {
	lcfg, gcfg, err := loadConfigs()
	if err != nil {
		return err
	}
	tmpl := pickString(f.template, lcfg.Template, gcfg.Template)
	if tmpl == "" {
		tmpl = report.GeneralTemplate
	}
	if err := validateTemplate(tmpl); err != nil {
		return err
	}
	format := strings.ToLower(pickString(f.format, lcfg.Format, gcfg.Format))
	if format == "" {
		format = formatMarkdown
	}
	switch format {
	case formatMarkdown, formatTable, formatJSON, formatSARIF:
	default:
		return fmt.Errorf("unknown format %q (want markdown|table|json|sarif)", format)
	}
	failOn, err := report.ParseFailOn(pickString(f.failOn, lcfg.FailOn, gcfg.FailOn))
	if err != nil {
		return err
	}

	log, err := g.logger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	rules, err := configuredRules(lcfg, gcfg)
	if err != nil {
		return err
	}
	analyzer, err := engine.New(engine.Options{Logger: log, Rules: rules})
	if err != nil {
		return err
	}

	dir := pickString(f.templateDir, lcfg.TemplateDir, gcfg.TemplateDir)
	if dir == "" {
		dir = templates.DefaultDir
	}
	checklist := templates.Load(dir, log)
	log.Debug("template selected", zap.String("template", tmpl), zap.Int("checklist_items", len(checklist[tmpl])))

	var (
		files []engine.FileResult
		stats report.PrintOptions
	)
	info, statErr := os.Stat(path)
	switch {
	case f.rev != "":
		if statErr == nil && info.IsDir() {
			return fmt.Errorf("--rev needs a file path, %s is a directory", path)
		}
		content, err := git.ReadFileAtRevision(path, f.rev)
		if err != nil {
			return err
		}
		files = []engine.FileResult{{Path: path, Findings: analyzer.AnalyzeContent(path, content)}}
	case statErr == nil && info.IsDir():
		wc := engine.WalkConfig{
			Root:            path,
			IncludeGlobs:    pickString(f.include, lcfg.Include, gcfg.Include),
			ExcludeGlobs:    pickString(f.exclude, lcfg.Exclude, gcfg.Exclude),
			MaxBytes:        pickInt64(f.maxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
			DefaultExcludes: pickBool(f.defaultExcludes, cmd.Flags().Changed("default-excludes"), lcfg.DefaultExcludes, gcfg.DefaultExcludes, true),
		}
		done := func() {}
		if isTerminal(cmd.ErrOrStderr()) {
			wc.Progress, done = progressLine(cmd.ErrOrStderr())
		}
		res, err := analyzer.ReviewTree(cmd.Context(), wc)
		done()
		if err != nil {
			return fmt.Errorf("review %s: %w", path, err)
		}
		files = res.Files
		stats.Duration = res.Duration
		stats.FilesScanned = len(res.Files)
	default:
		started := time.Now()
		files = []engine.FileResult{{Path: path, Findings: analyzer.AnalyzeFile(path)}}
		stats.Duration = time.Since(started)
		stats.FilesScanned = 1
	}

	var filtered []types.Finding
	for _, fr := range files {
		filtered = append(filtered, report.Filter(fr.Findings, tmpl)...)
	}

	var buf bytes.Buffer
	switch format {
	case formatMarkdown:
		for _, fr := range files {
			fmt.Fprintln(&buf, report.RenderReview(fr.Path, tmpl, fr.Findings))
		}
	case formatTable:
		noColor := pickBool(g.noColor, cmd.Flags().Changed("no-color"), lcfg.NoColor, gcfg.NoColor, false)
		stats.NoColor = f.copy || colorDisabled(cmd.OutOrStdout(), noColor)
		if err := report.PrintTable(&buf, filtered, stats); err != nil {
			return err
		}
	case formatJSON:
		if err := report.WriteJSON(&buf, filtered); err != nil {
			return err
		}
	case formatSARIF:
		if err := report.WriteSARIF(&buf, filtered, version, ruleMeta(analyzer)...); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}
	if f.copy {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			log.Warn("could not copy review to clipboard", zap.Error(err))
		}
	}

	if report.ShouldFail(filtered, failOn) {
		n := 0
		for _, x := range filtered {
			if x.Severity.Rank() >= failOn.Rank() {
				n++
			}
		}
		return &thresholdError{level: string(failOn), count: n}
	}
	return nil
}

func validateTemplate(tmpl string) error {
	parts := splitList(tmpl)
	if len(parts) == 0 {
		return fmt.Errorf("empty template")
	}
	for _, p := range parts {
		if p == report.GeneralTemplate || types.Category(p).Valid() {
			continue
		}
		want := []string{report.GeneralTemplate}
		for _, c := range types.Categories() {
			want = append(want, string(c))
		}
		return fmt.Errorf("unknown template %q (want one of %s)", p, strings.Join(want, ", "))
	}
	return nil
}

func ruleMeta(a *engine.Analyzer) []report.RuleMeta {
	rules := a.Rules()
	out := make([]report.RuleMeta, 0, len(rules))
	for _, r := range rules {
		out = append(out, report.RuleMeta{ID: r.ID, Description: r.Description, Category: r.Category, Severity: r.Severity})
	}
	return out
}

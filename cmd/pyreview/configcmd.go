package pyreview

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/varalys/pyreview/internal/config"
	"github.com/varalys/pyreview/internal/detectors"
	"github.com/varalys/pyreview/internal/report"
	"github.com/varalys/pyreview/internal/types"
)

type configInitFlags struct {
	preset          string
	output          string
	force           bool
	template        string
	format          string
	failOn          string
	disable         string
	longFunction    int
	maxBytes        int64
	noColor         bool
	defaultExcludes bool
}

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}

	f := &configInitFlags{}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .pyreview.yml with selected rules and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, f)
		},
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&f.preset, "preset", "standard", "rule preset: standard | security | strict")
	initCmd.Flags().StringVar(&f.output, "output", ".pyreview.yml", "output file path")
	initCmd.Flags().BoolVar(&f.force, "force", false, "overwrite an existing file")
	initCmd.Flags().StringVar(&f.template, "template", "", "default review template")
	initCmd.Flags().StringVar(&f.format, "format", "", "default output format")
	initCmd.Flags().StringVar(&f.failOn, "fail-on", "", "default failure threshold")
	initCmd.Flags().StringVar(&f.disable, "disable", "", "comma-separated rule IDs to disable")
	initCmd.Flags().IntVar(&f.longFunction, "long-function-threshold", detectors.DefaultLongFunctionThreshold, "line span above which long-function fires")
	initCmd.Flags().Int64Var(&f.maxBytes, "max-bytes", 1<<20, "skip files larger than this in directory reviews")
	initCmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&f.defaultExcludes, "default-excludes", true, "skip virtualenvs, caches and VCS directories")
	return cfgCmd
}

func runConfigInit(cmd *cobra.Command, f *configInitFlags) error {
	if _, err := os.Stat(f.output); err == nil && !f.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", f.output)
	}

	fc := config.FileConfig{
		Template:              optStrPtr(f.template),
		Format:                optStrPtr(f.format),
		FailOn:                optStrPtr(f.failOn),
		MaxBytes:              int64Ptr(f.maxBytes),
		NoColor:               boolPtr(f.noColor),
		DefaultExcludes:       boolPtr(f.defaultExcludes),
		LongFunctionThreshold: intPtr(f.longFunction),
	}
	rules := map[string]config.RuleConfig{}
	switch strings.ToLower(f.preset) {
	case "security":
		fc.Template = strPtr(string(types.CatSecurity))
		for _, r := range detectors.Default() {
			if r.Category != types.CatSecurity {
				rules[r.ID] = config.RuleConfig{Disabled: true}
			}
		}
	case "strict":
		if fc.FailOn == nil {
			fc.FailOn = strPtr(string(types.SevLow))
		}
	case "standard":
	default:
		return fmt.Errorf("unknown preset %q (want standard|security|strict)", f.preset)
	}
	for _, id := range splitList(f.disable) {
		if _, ok := detectors.Get(id); !ok {
			return fmt.Errorf("unknown rule id: %s", id)
		}
		rules[id] = config.RuleConfig{Disabled: true}
	}
	if len(rules) > 0 {
		fc.Rules = rules
	}
	if fc.FailOn != nil {
		if _, err := report.ParseFailOn(*fc.FailOn); err != nil {
			return err
		}
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.output, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", f.output)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

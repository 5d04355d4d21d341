package pyreview

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/varalys/pyreview/internal/detectors"
	"github.com/varalys/pyreview/internal/engine"
	"github.com/varalys/pyreview/internal/report"
)

func newRulesCmd(_ *globalFlags) *cobra.Command {
	var idsOnly bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules",
		Long:  "List the rules a review runs, in order, after configuration overrides are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lcfg, gcfg, err := loadConfigs()
			if err != nil {
				return err
			}
			rules, err := configuredRules(lcfg, gcfg)
			if err != nil {
				return err
			}
			if idsOnly {
				for _, r := range rules {
					fmt.Fprintln(cmd.OutOrStdout(), r.ID)
				}
				return nil
			}
			return printRules(cmd.OutOrStdout(), rules)
		},
	}
	cmd.Flags().BoolVar(&idsOnly, "ids", false, "print only rule IDs")
	return cmd
}

func printRules(w io.Writer, rules []detectors.Rule) error {
	table := tablewriter.NewWriter(w)
	table.Header("Rule", "Scope", "Category", "Severity", "Description")
	for _, r := range rules {
		if err := table.Append([]string{r.ID, r.Scope.String(), string(r.Category), string(r.Severity), r.Description}); err != nil {
			return err
		}
	}
	return table.Render()
}

func newTestRuleCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-rule <id>",
		Short: "Run one rule against Python source read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lcfg, gcfg, err := loadConfigs()
			if err != nil {
				return err
			}
			rules, err := configuredRules(lcfg, gcfg)
			if err != nil {
				return err
			}
			var (
				rule *detectors.Rule
				ids  []string
			)
			for i := range rules {
				ids = append(ids, rules[i].ID)
				if rules[i].ID == args[0] {
					rule = &rules[i]
				}
			}
			if rule == nil {
				if _, known := detectors.Get(args[0]); known {
					return fmt.Errorf("rule %s is disabled by configuration", args[0])
				}
				return fmt.Errorf("unknown rule id: %s (available: %s)", args[0], strings.Join(ids, ", "))
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			a, err := engine.New(engine.Options{Logger: log, Rules: []detectors.Rule{*rule}})
			if err != nil {
				return err
			}
			findings := a.AnalyzeContent("stdin", string(data))
			return report.PrintTable(cmd.OutOrStdout(), findings, report.PrintOptions{
				NoColor: colorDisabled(cmd.OutOrStdout(), g.noColor),
			})
		},
	}
	cmd.Long = "Available rules: " + strings.Join(detectors.IDs(), ", ")
	return cmd
}

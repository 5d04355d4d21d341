package pyreview

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varalys/pyreview/internal/templates"
)

func newTemplatesCmd(g *globalFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List review templates and their checklist items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lcfg, gcfg, err := loadConfigs()
			if err != nil {
				return err
			}
			d := pickString(dir, lcfg.TemplateDir, gcfg.TemplateDir)
			if d == "" {
				d = templates.DefaultDir
			}
			log, err := g.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			set := templates.Load(d, log)
			out := cmd.OutOrStdout()
			if len(set) == 0 {
				fmt.Fprintf(out, "No templates found in %s\n", d)
				return nil
			}
			for _, name := range set.Names() {
				fmt.Fprintf(out, "%s (%d items)\n", name, len(set[name]))
				for _, item := range set[name] {
					fmt.Fprintf(out, "  - [ ] %s\n", item)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "template-dir", "", "directory of checklist templates (default "+templates.DefaultDir+")")
	return cmd
}

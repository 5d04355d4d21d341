package pyreview

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/varalys/pyreview/internal/logging"
)

var version = "0.1.0"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	noColor bool
	debug   bool
}

func (g *globalFlags) logger(cmd *cobra.Command) (*zap.Logger, error) {
	return logging.New(logging.Options{Debug: g.debug, Output: cmd.ErrOrStderr()})
}

// thresholdError signals that findings met --fail-on. It maps to exit 1.
type thresholdError struct {
	level string
	count int
}

func (e *thresholdError) Error() string {
	return fmt.Sprintf("%d finding(s) at or above %s", e.count, e.level)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "pyreview",
		Short:         "Review Python files for common issues",
		Long:          "pyreview statically reviews Python source for security, performance and code-quality issues and renders a review per template.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colorized output")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newReviewCmd(g),
		newRulesCmd(g),
		newTestRuleCmd(g),
		newTemplatesCmd(g),
		newConfigCmd(),
		newCompletionCmd(root),
	)
	return root
}

// Execute runs the pyreview CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code:
// 0 on success, 1 when findings meet --fail-on, 2 on any other error.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var te *thresholdError
	if errors.As(err, &te) {
		return 1
	}
	fmt.Fprintln(stderr, "error:", err)
	return 2
}

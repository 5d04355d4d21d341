package pyreview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/varalys/pyreview/internal/config"
	"github.com/varalys/pyreview/internal/detectors"
)

// Precedence for every setting: CLI > local > global > default.

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

// pickBool honours an explicitly set flag even when it is false.
func pickBool(cli bool, changed bool, local, global *bool, def bool) bool {
	if changed {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return def
}

// loadConfigs returns the local config from the working directory and the
// global one. Missing files yield zero values; unreadable or malformed ones
// are errors.
func loadConfigs() (local, global config.FileConfig, err error) {
	global, err = config.LoadGlobal()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return local, global, fmt.Errorf("global config: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return local, global, err
	}
	local, err = config.LoadLocal(wd)
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return local, global, fmt.Errorf("local config: %w", err)
	}
	return local, global, nil
}

// configuredRules builds the rule set with thresholds and per-rule
// overrides from configuration applied.
func configuredRules(local, global config.FileConfig) ([]detectors.Rule, error) {
	opts := detectors.Options{
		LongFunctionThreshold: pickInt(0, local.LongFunctionThreshold, global.LongFunctionThreshold),
	}
	overrides, err := config.RuleOverrides(local, global)
	if err != nil {
		return nil, err
	}
	return detectors.Configure(detectors.New(opts), overrides)
}

// colorDisabled turns color off when asked to, or when w is not a terminal.
func colorDisabled(w io.Writer, noColor bool) bool {
	return noColor || !isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressLine keeps a running file count on a single line of w. done
// erases the line.
func progressLine(w io.Writer) (tick, done func()) {
	n := 0
	tick = func() {
		n++
		fmt.Fprintf(w, "\rreviewed %d file(s)", n)
	}
	done = func() {
		if n > 0 {
			fmt.Fprint(w, "\r\033[K")
		}
	}
	return tick, done
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

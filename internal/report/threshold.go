package report

import (
	"fmt"
	"strings"

	"github.com/varalys/pyreview/internal/types"
)

// FailNone disables the failure threshold.
const FailNone = "none"

// ParseFailOn validates a --fail-on value. It returns "" for none.
func ParseFailOn(s string) (types.Severity, error) {
	if v := strings.ToLower(strings.TrimSpace(s)); v == "" || v == FailNone {
		return "", nil
	}
	sev, err := types.ParseSeverity(s)
	if err != nil {
		return "", fmt.Errorf("invalid fail-on level: %w", err)
	}
	return sev, nil
}

// ShouldFail reports whether any finding is at or above level. An empty
// level never fails.
func ShouldFail(findings []types.Finding, level types.Severity) bool {
	th := level.Rank()
	if th == 0 {
		return false
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}

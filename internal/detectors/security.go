package detectors

import (
	"regexp"

	"github.com/varalys/pyreview/internal/types"
)

var (
	reCredential = regexp.MustCompile(`(?i)(password|api_key|secret|token).*=.*['"][^'"]+['"]`)
	reSQLConcat  = regexp.MustCompile(`(?i)SELECT.*\+.*str\(`)
	reBareExcept = regexp.MustCompile(`except\s*:`)
)

// HardcodedCredential flags a credential-like name assigned a quoted literal.
func HardcodedCredential() Rule {
	return Rule{
		ID:          "hardcoded-credential",
		Scope:       ScopeLine,
		Category:    types.CatSecurity,
		Severity:    types.SevHigh,
		Description: "password/api_key/secret/token assigned a string literal",
		Message:     "Hardcoded credentials detected. Use environment variables instead.",
		MatchLine:   reCredential.MatchString,
	}
}

// SQLInjection flags a SELECT string concatenated with str(...).
func SQLInjection() Rule {
	return Rule{
		ID:          "sql-injection",
		Scope:       ScopeLine,
		Category:    types.CatSecurity,
		Severity:    types.SevHigh,
		Description: "SELECT query built by concatenating str() values",
		Message:     "Potential SQL injection vulnerability. Use parameterized queries.",
		MatchLine:   reSQLConcat.MatchString,
	}
}

func BareExcept() Rule {
	return Rule{
		ID:          "bare-except",
		Scope:       ScopeLine,
		Category:    types.CatSecurity,
		Severity:    types.SevMed,
		Description: "except clause without an exception type",
		Message:     "Bare except clause found. Specify exceptions to catch.",
		MatchLine:   reBareExcept.MatchString,
	}
}

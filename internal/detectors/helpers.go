package detectors

import (
	"bufio"
	"strings"

	"github.com/varalys/pyreview/internal/types"
)

// scanLines runs match over every line of content and emits a finding for
// each line it accepts. Lines are 1-based.
func scanLines(r Rule, path, content string) []types.Finding {
	var out []types.Finding
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	line := 0
	for sc.Scan() {
		line++
		if r.MatchLine(sc.Text()) {
			out = append(out, r.finding(path, line, r.Message))
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

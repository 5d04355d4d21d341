package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/varalys/pyreview/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// Summary counts findings by severity and category.
type Summary struct {
	Total      int
	High       int
	Medium     int
	Low        int
	ByCategory map[types.Category]int
}

func Summarize(findings []types.Finding) Summary {
	s := Summary{Total: len(findings), ByCategory: map[types.Category]int{}}
	for _, f := range findings {
		switch f.Severity {
		case types.SevHigh:
			s.High++
		case types.SevMed:
			s.Medium++
		default:
			s.Low++
		}
		s.ByCategory[f.Category]++
	}
	return s
}

// PrintTable writes findings as a table in their given order, followed by a
// summary footer when run statistics are available.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		paint := severityPainter(w, opts.NoColor)
		table := tablewriter.NewWriter(w)
		table.Header("Severity", "Category", "Rule", "File", "Line", "Message")
		for _, f := range findings {
			line := "-"
			if f.Line > 0 {
				line = strconv.Itoa(f.Line)
			}
			if err := table.Append([]string{
				paint(f.Severity), string(f.Category), f.Rule, f.Path, line, f.Message,
			}); err != nil {
				return fmt.Errorf("table row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if opts.Duration > 0 || opts.FilesScanned > 0 {
		s := Summarize(findings)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Findings: %d (high: %d, medium: %d, low: %d)\n", s.Total, s.High, s.Medium, s.Low)
		if opts.Duration > 0 {
			fmt.Fprintf(w, "Review duration: %.2fs\n", opts.Duration.Seconds())
		}
		if opts.FilesScanned > 0 {
			fmt.Fprintf(w, "Files reviewed: %d\n", opts.FilesScanned)
		}
	}
	return nil
}

func severityPainter(w io.Writer, noColor bool) func(types.Severity) string {
	if noColor {
		return func(s types.Severity) string { return string(s) }
	}
	r := lipgloss.NewRenderer(w)
	styles := map[types.Severity]lipgloss.Style{
		types.SevHigh: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		types.SevMed:  r.NewStyle().Foreground(lipgloss.Color("11")),
		types.SevLow:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}
	return func(s types.Severity) string {
		if st, ok := styles[s]; ok {
			return st.Render(string(s))
		}
		return string(s)
	}
}

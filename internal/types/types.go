package types

import (
	"fmt"
	"strconv"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Valid reports whether s is one of the fixed severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SevLow, SevMed, SevHigh:
		return true
	}
	return false
}

// Rank orders severities; unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SevHigh:
		return 3
	case SevMed:
		return 2
	case SevLow:
		return 1
	}
	return 0
}

// ParseSeverity accepts low|medium|high (case-insensitive, "med" allowed).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SevLow, nil
	case "medium", "med":
		return SevMed, nil
	case "high":
		return SevHigh, nil
	}
	return "", fmt.Errorf("unknown severity %q (want low|medium|high)", s)
}

// Category groups findings into the areas a review template can select.
type Category string

const (
	CatSecurity    Category = "security"
	CatPerformance Category = "performance"
	CatQuality     Category = "code_quality"
)

// Categories lists every category in analysis order.
func Categories() []Category {
	return []Category{CatSecurity, CatPerformance, CatQuality}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CatSecurity, CatPerformance, CatQuality:
		return true
	}
	return false
}

// Finding describes one issue detected in a source file. Line is 1-based;
// 0 means the finding applies to the whole file.
type Finding struct {
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line"`
	Category Category `json:"category"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Validate checks the invariants every emitted finding must hold.
func (f Finding) Validate() error {
	if !f.Category.Valid() {
		return fmt.Errorf("finding %s: unknown category %q", f.Rule, f.Category)
	}
	if !f.Severity.Valid() {
		return fmt.Errorf("finding %s: unknown severity %q", f.Rule, f.Severity)
	}
	if strings.TrimSpace(f.Message) == "" {
		return fmt.Errorf("finding %s: empty message", f.Rule)
	}
	if f.Line < 0 {
		return fmt.Errorf("finding %s: negative line %d", f.Rule, f.Line)
	}
	return nil
}

// Fingerprint is a stable hash of the finding identity, suitable for
// SARIF partialFingerprints.
func (f Finding) Fingerprint() string {
	key := f.Path + "|" + f.Rule + "|" + strconv.Itoa(f.Line) + "|" + f.Message
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}

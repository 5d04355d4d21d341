package report

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/varalys/pyreview/internal/types"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string          `json:"id"`
	ShortDescription     sarifMessage    `json:"shortDescription"`
	DefaultConfiguration sarifRuleConfig `json:"defaultConfiguration"`
	Properties           map[string]any  `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt     `json:"artifactLocation"`
	Region           *sarifRegion `json:"region,omitempty"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// RuleMeta describes a rule for the SARIF tool.driver.rules table.
type RuleMeta struct {
	ID          string
	Description string
	Category    types.Category
	Severity    types.Severity
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "error"
	case types.SevMed:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0. Rules listed in meta come first
// in the rules table; rules seen only in findings are appended. Whole-file
// findings carry no region.
func WriteSARIF(w io.Writer, findings []types.Finding, version string, meta ...RuleMeta) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "pyreview", Version: version}},
		Results: []sarifResult{},
	}
	index := map[string]int{}
	addRule := func(m RuleMeta) int {
		if i, ok := index[m.ID]; ok {
			return i
		}
		desc := m.Description
		if desc == "" {
			desc = m.ID
		}
		rule := sarifRule{
			ID:                   m.ID,
			ShortDescription:     sarifMessage{Text: desc},
			DefaultConfiguration: sarifRuleConfig{Level: sevToLevel(m.Severity)},
		}
		if m.Category != "" {
			rule.Properties = map[string]any{"category": string(m.Category)}
		}
		index[m.ID] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
		return index[m.ID]
	}
	for _, m := range meta {
		addRule(m)
	}
	for _, f := range findings {
		i := addRule(RuleMeta{ID: f.Rule, Category: f.Category, Severity: f.Severity})
		phys := sarifPhys{ArtifactLocation: sarifArt{URI: filepath.ToSlash(f.Path)}}
		if f.Line > 0 {
			phys.Region = &sarifRegion{StartLine: f.Line}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:              f.Rule,
			RuleIndex:           i,
			Level:               sevToLevel(f.Severity),
			Message:             sarifMessage{Text: f.Message},
			Locations:           []sarifLoc{{PhysicalLocation: phys}},
			PartialFingerprints: map[string]string{"pyreview/v1": f.Fingerprint()},
		})
	}
	if run.Tool.Driver.Rules == nil {
		run.Tool.Driver.Rules = []sarifRule{}
	}
	doc := sarif{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/varalys/pyreview/internal/detectors"
	"github.com/varalys/pyreview/internal/types"
)

// ErrNoConfig is returned by LoadLocal and LoadGlobal when there is no
// config file to read.
var ErrNoConfig = errors.New("no config")

// LocalNames are the repo-local config files, in lookup order.
var LocalNames = []string{".pyreview.yml", ".pyreview.yaml", "pyreview.yml", "pyreview.yaml"}

// FileConfig is the on-disk YAML configuration shape for pyreview.
type FileConfig struct {
	Template              *string `yaml:"template,omitempty"`
	TemplateDir           *string `yaml:"template_dir,omitempty"`
	Format                *string `yaml:"format,omitempty"`
	FailOn                *string `yaml:"fail_on,omitempty"`
	NoColor               *bool   `yaml:"no_color,omitempty"`
	Include               *string `yaml:"include,omitempty"`
	Exclude               *string `yaml:"exclude,omitempty"`
	MaxBytes              *int64  `yaml:"max_bytes,omitempty"`
	DefaultExcludes       *bool   `yaml:"default_excludes,omitempty"`
	LongFunctionThreshold *int    `yaml:"long_function_threshold,omitempty"`

	// Rules adjusts individual rules by ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty"`
}

// RuleConfig disables a rule or overrides its severity.
type RuleConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, fmt.Errorf("local config in %s: %w", repoRoot, ErrNoConfig)
}

// GlobalPath returns $XDG_CONFIG_HOME/pyreview/config.yml, falling back to
// ~/.config. It is empty when neither location can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "pyreview", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, fmt.Errorf("no config dir: %w", ErrNoConfig)
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, fmt.Errorf("global config %s: %w", p, ErrNoConfig)
}

// RuleOverrides merges the rules sections of the local and global configs,
// local entries replacing global ones per rule ID, and converts them into
// detector overrides.
func RuleOverrides(local, global FileConfig) (map[string]detectors.Override, error) {
	merged := map[string]RuleConfig{}
	for id, rc := range global.Rules {
		merged[id] = rc
	}
	for id, rc := range local.Rules {
		merged[id] = rc
	}
	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]detectors.Override, len(merged))
	for _, id := range ids {
		rc := merged[id]
		o := detectors.Override{Disabled: rc.Disabled}
		if rc.Severity != "" {
			sev, err := types.ParseSeverity(rc.Severity)
			if err != nil {
				return nil, fmt.Errorf("rules.%s.severity: %w", id, err)
			}
			o.Severity = sev
		}
		out[id] = o
	}
	return out, nil
}

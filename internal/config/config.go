// Package config loads pyreview configuration from a YAML file.
// A missing file is not an error: every setting degrades to its
// default so a bare checkout reviews with the stock rule set.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional config file name searched for in
// the working directory when no explicit path is given.
const DefaultFile = ".pyreview.yml"

// AnalyzerConfig is one analyzer's configuration block: an enabled
// flag plus free-form options. Options hold scalars decoded from
// YAML (bool, int, float64, string).
type AnalyzerConfig struct {
	Enabled bool
	Options map[string]any
}

// IntOption returns a named integer option, or def when absent or
// not a number.
func (a AnalyzerConfig) IntOption(name string, def int) int {
	switch v := a.Options[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// FloatOption returns a named float option, or def when absent or
// not a number.
func (a AnalyzerConfig) FloatOption(name string, def float64) float64 {
	switch v := a.Options[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// BoolOption returns a named boolean option, or def when absent or
// not a bool.
func (a AnalyzerConfig) BoolOption(name string, def bool) bool {
	if v, ok := a.Options[name].(bool); ok {
		return v
	}
	return def
}

// Config is the full run configuration. It is loaded once before
// any analyzer is constructed and never mutated during a run.
type Config struct {
	// Enabled gates the whole review.
	Enabled bool

	// Strict turns any Error-severity issue into a failing exit.
	Strict bool

	// MinScore fails the run when the total score drops below it.
	MinScore float64

	// IgnorePaths lists path substrings whose tests are excluded.
	IgnorePaths []string

	// IgnoreRules lists rule ids whose issues are discarded.
	IgnoreRules []string

	// Analyzers maps analyzer name to its configuration block.
	Analyzers map[string]AnalyzerConfig
}

// Default returns the all-defaults configuration: review enabled,
// every analyzer enabled with stock thresholds.
func Default() Config {
	return Config{
		Enabled:   true,
		Analyzers: map[string]AnalyzerConfig{},
	}
}

// Analyzer returns the named analyzer's block. Unknown analyzers
// get an enabled block with no options.
func (c Config) Analyzer(name string) AnalyzerConfig {
	if ac, ok := c.Analyzers[name]; ok {
		return ac
	}
	return AnalyzerConfig{Enabled: true}
}

// AnalyzerEnabled reports whether the named analyzer should run.
func (c Config) AnalyzerEnabled(name string) bool {
	return c.Analyzer(name).Enabled
}

// rawConfig mirrors the YAML document shape.
type rawConfig struct {
	Enabled  *bool   `yaml:"enabled"`
	Strict   bool    `yaml:"strict"`
	MinScore float64 `yaml:"min_score"`
	Ignore   struct {
		Paths []string `yaml:"paths"`
		Rules []string `yaml:"rules"`
	} `yaml:"ignore"`
	Analyzers map[string]map[string]any `yaml:"analyzers"`
}

// Load reads configuration from path. When path is empty the
// conventional DefaultFile is tried. A missing file yields
// Default() with no error; a malformed file is a configuration
// error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Default(), fmt.Errorf("config file %s not found", path)
		}
		return Default(), fmt.Errorf("reading config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	if raw.Enabled != nil {
		cfg.Enabled = *raw.Enabled
	}
	cfg.Strict = raw.Strict
	cfg.MinScore = raw.MinScore
	cfg.IgnorePaths = raw.Ignore.Paths
	cfg.IgnoreRules = raw.Ignore.Rules

	for name, block := range raw.Analyzers {
		ac := AnalyzerConfig{Enabled: true, Options: map[string]any{}}
		for key, value := range block {
			if key == "enabled" {
				if b, ok := value.(bool); ok {
					ac.Enabled = b
				}
				continue
			}
			ac.Options[key] = value
		}
		cfg.Analyzers[name] = ac
	}

	return cfg, nil
}

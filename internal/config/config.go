package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/contaudit-dev/contaudit/internal/reconcile"
)

// Config represents the top-level audit.yaml configuration. Amounts are
// kept as strings in the file and parsed to decimals, so tolerances stay
// exact.
type Config struct {
	// Tolerance is the absolute discrepancy below which an account counts
	// as balanced.
	Tolerance string `yaml:"tolerance"`
	// SettledCutoff is the |net| band treated as settled per reference.
	SettledCutoff string `yaml:"settled_cutoff"`
	// IncludeUnreferenced selects the net-movement policy for postings with
	// no captured reference (see reconcile.Options).
	IncludeUnreferenced bool `yaml:"include_unreferenced"`
	// CounterpartyPrefix is stripped from charge-row descriptions when
	// deriving the counterparty name.
	CounterpartyPrefix string `yaml:"counterparty_prefix"`
	// ReferencePlaceholders are cell values treated as "no reference".
	ReferencePlaceholders []string `yaml:"reference_placeholders"`
	// ReportDir is where the audit command writes the result tables.
	ReportDir string `yaml:"report_dir"`
}

// FileName is the default config file name.
const FileName = "audit.yaml"

// Load reads an audit.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration the audit historically ran with.
func Default() *Config {
	return &Config{
		Tolerance:             "1.00",
		SettledCutoff:         "0.01",
		IncludeUnreferenced:   true,
		CounterpartyPrefix:    "CXC",
		ReferencePlaceholders: []string{"nan", "none", "null"},
		ReportDir:             "audit-out",
	}
}

// ReconcileOptions parses the amount fields into reconciliation options.
func (c *Config) ReconcileOptions() (reconcile.Options, error) {
	opts := reconcile.DefaultOptions()
	opts.IncludeUnreferenced = c.IncludeUnreferenced

	if c.Tolerance != "" {
		d, err := decimal.NewFromString(c.Tolerance)
		if err != nil {
			return opts, fmt.Errorf("parsing tolerance %q: %w", c.Tolerance, err)
		}
		opts.Tolerance = d
	}
	if c.SettledCutoff != "" {
		d, err := decimal.NewFromString(c.SettledCutoff)
		if err != nil {
			return opts, fmt.Errorf("parsing settled_cutoff %q: %w", c.SettledCutoff, err)
		}
		opts.SettledCutoff = d
	}
	return opts, nil
}

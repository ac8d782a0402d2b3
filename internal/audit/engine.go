// Package audit wires the loading, classification, ledger, and
// reconciliation stages into a single run over one export snapshot. A run is
// read-only with respect to its input and recomputes every table from
// scratch, so the same file always yields the same result.
package audit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/contaudit-dev/contaudit/internal/classify"
	"github.com/contaudit-dev/contaudit/internal/config"
	"github.com/contaudit-dev/contaudit/internal/ledger"
	"github.com/contaudit-dev/contaudit/internal/loader"
	"github.com/contaudit-dev/contaudit/internal/model"
	"github.com/contaudit-dev/contaudit/internal/reconcile"
	"github.com/contaudit-dev/contaudit/internal/refkey"
)

// Result holds every table one audit run produces.
type Result struct {
	RowCount         int
	Ledger           *ledger.Ledger
	Reconciliation   []model.ReconciliationRow
	References       []model.ReferenceSummary
	CrossReferences  []model.CrossReferenceGroup
	TotalDiscrepancy decimal.Decimal
}

// Engine runs audits. Engines hold no per-run state; once configured, an
// Engine may be shared across goroutines auditing different files.
type Engine struct {
	registry *loader.Registry
	builder  *ledger.Builder
	opts     reconcile.Options
}

// NewEngine builds an Engine from a configuration.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts, err := cfg.ReconcileOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	norm := refkey.New()
	if len(cfg.ReferencePlaceholders) > 0 {
		norm = refkey.NewWithPlaceholders(cfg.ReferencePlaceholders)
	}

	return &Engine{
		registry: loader.DefaultRegistry(),
		builder:  ledger.NewBuilder(norm, cfg.CounterpartyPrefix),
		opts:     opts,
	}, nil
}

// Options returns the reconciliation options in effect.
func (e *Engine) Options() reconcile.Options { return e.opts }

// SetOptions overrides the reconciliation options (flag overrides). Not
// synchronized: call during setup, before the Engine is shared.
func (e *Engine) SetOptions(opts reconcile.Options) { e.opts = opts }

// Run loads the export at path and analyzes it. A file no parser accepts is
// fatal; the error carries the underlying cause and no partial result is
// returned.
func (e *Engine) Run(path string) (*Result, error) {
	rows, err := e.registry.Load(path)
	if err != nil {
		return nil, err
	}
	return e.Analyze(rows), nil
}

// Analyze runs the in-memory pipeline over already-loaded rows.
func (e *Engine) Analyze(rows []classify.Row) *Result {
	led := e.builder.Build(rows)
	recon := reconcile.Accounts(led, e.opts)

	return &Result{
		RowCount:         len(rows),
		Ledger:           led,
		Reconciliation:   recon,
		References:       reconcile.References(led.Postings, e.opts.SettledCutoff),
		CrossReferences:  reconcile.CrossReferences(led.Postings),
		TotalDiscrepancy: reconcile.TotalDiscrepancy(recon),
	}
}

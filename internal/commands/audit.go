package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/contaudit-dev/contaudit/internal/audit"
	"github.com/contaudit-dev/contaudit/internal/config"
	"github.com/contaudit-dev/contaudit/internal/reconcile"
	"github.com/contaudit-dev/contaudit/internal/report"
	"github.com/contaudit-dev/contaudit/internal/runlog"
)

func newAuditCommand() *cobra.Command {
	var (
		rootDir             string
		outDir              string
		configPath          string
		tolerance           string
		includeUnreferenced bool
		quiet               bool
		noLog               bool
	)

	cmd := &cobra.Command{
		Use:   "audit <export-file>",
		Short: "Reconcile an accounting export against its own arithmetic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absRoot, err := filepath.Abs(rootDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			opts := auditOptions{
				root:       absRoot,
				out:        outDir,
				configPath: configPath,
				tolerance:  tolerance,
				quiet:      quiet,
				noLog:      noLog,
			}
			if cmd.Flags().Changed("include-unreferenced") {
				opts.includeUnreferenced = &includeUnreferenced
			}
			return runAudit(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&rootDir, "root", ".", "workspace directory (audit.yaml, logs, reports)")
	cmd.Flags().StringVar(&outDir, "out", "", "report directory (default <root>/<report_dir>)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default <root>/audit.yaml)")
	cmd.Flags().StringVar(&tolerance, "tolerance", "", "override balance tolerance, e.g. 1.00")
	cmd.Flags().BoolVar(&includeUnreferenced, "include-unreferenced", true, "count unreferenced postings in net movements")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the console summary")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "do not append to the audit log")

	return cmd
}

type auditOptions struct {
	root                string
	out                 string
	configPath          string
	tolerance           string
	includeUnreferenced *bool // nil = use config
	quiet               bool
	noLog               bool
}

func runAudit(cmd *cobra.Command, exportPath string, opts auditOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	engine, err := audit.NewEngine(cfg)
	if err != nil {
		return err
	}
	if err := applyOverrides(engine, opts); err != nil {
		return err
	}

	res, err := engine.Run(exportPath)
	if err != nil {
		return fmt.Errorf("auditing %s: %w", exportPath, err)
	}

	out := opts.out
	if out == "" {
		out = filepath.Join(opts.root, cfg.ReportDir)
	}
	if err := report.WriteAll(out, res); err != nil {
		return err
	}

	if !opts.noLog {
		if err := appendLog(opts.root, exportPath, res); err != nil {
			return err
		}
	}

	if !opts.quiet {
		fmt.Fprint(cmd.OutOrStdout(), report.HumanSummary(res))
		fmt.Fprintf(cmd.OutOrStdout(), "\nReports written to %s\n", out)
	}
	return nil
}

// loadConfig reads the workspace config; a missing file means defaults, any
// other read problem is an error.
func loadConfig(opts auditOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = filepath.Join(opts.root, config.FileName)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func applyOverrides(engine *audit.Engine, opts auditOptions) error {
	ropts := engine.Options()
	if opts.tolerance != "" {
		d, err := decimal.NewFromString(opts.tolerance)
		if err != nil {
			return fmt.Errorf("parsing --tolerance %q: %w", opts.tolerance, err)
		}
		ropts.Tolerance = d
	}
	if opts.includeUnreferenced != nil {
		ropts.IncludeUnreferenced = *opts.includeUnreferenced
	}
	engine.SetOptions(ropts)
	return nil
}

func appendLog(root, exportPath string, res *audit.Result) error {
	status := "balanced"
	if len(reconcile.Flagged(res.Reconciliation)) > 0 || len(res.Ledger.Phantoms) > 0 {
		status = "flagged"
	}
	return runlog.Append(root, []runlog.Entry{{
		Timestamp:        time.Now().UTC(),
		RunID:            runlog.NewRunID(),
		SourceFile:       filepath.Base(exportPath),
		Rows:             res.RowCount,
		Accounts:         len(res.Ledger.Accounts),
		Postings:         len(res.Ledger.Postings),
		Phantoms:         len(res.Ledger.Phantoms),
		TotalDiscrepancy: res.TotalDiscrepancy,
		Status:           status,
	}})
}

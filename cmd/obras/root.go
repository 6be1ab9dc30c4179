package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/pipeline"
	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/report"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "obras",
		Short: "Urban public-works ETL, lifecycle and indicators",
		Long: `obras loads the municipal public-works CSV into a relational store,
manages the lifecycle of individual works and reports aggregate indicators.

Run without a subcommand to perform the batch run: connect, ensure the
schema, extract, clean, load when the store is empty and print the
indicators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				return runBatch(cmd.Context(), a, cmd.OutOrStdout())
			})
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.csvPath, "csv", "", "Source CSV path (overrides OBRAS_CSV_PATH)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides OBRAS_DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newImportCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
		newSearchCmd(opts),
		newWorkCmd(opts),
	)
	return cmd
}

func runBatch(ctx context.Context, a *app, out io.Writer) error {
	fmt.Fprintln(out, "--- Import ---")
	result, err := runImport(ctx, a, pipeline.NewImportJob(a.cfg.Source.CSVPath))
	if err != nil {
		return err
	}
	printImportResult(out, result)

	fmt.Fprintln(out, "\n--- Indicators ---")
	return writeIndicators(ctx, a, out)
}

func runImport(ctx context.Context, a *app, job pipeline.ImportJob) (*pipeline.ImportResult, error) {
	m, err := pipeline.NewManager(a.cfg, a.store, a.logger)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, job)
}

func printImportResult(out io.Writer, r *pipeline.ImportResult) {
	fmt.Fprintf(out, "Import %s: %s\n", r.JobID, r.Status)
	fmt.Fprintf(out, "  Rows read:      %d\n", r.RowsRead)
	fmt.Fprintf(out, "  Rows clean:     %d\n", r.RowsClean)
	fmt.Fprintf(out, "  Duplicates:     %d\n", r.RowsDropped)
	fmt.Fprintf(out, "  Cleaning ops:   %d\n", r.CleaningOperations)
	if r.Status == model.ImportSkipped {
		fmt.Fprintln(out, "  The store already contains works; initial load skipped.")
	} else {
		fmt.Fprintf(out, "  Rows loaded:    %d\n", r.RowsLoaded)
	}
	if v := r.Verification; v != nil {
		fmt.Fprintf(out, "  Verified:       %t (%d works in store)\n", v.RowCountMatches, v.ActualRows)
		for _, issue := range v.IntegrityIssues {
			fmt.Fprintf(out, "    %s\n", issue.Description)
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "  Warning: %s\n", w)
	}
}

func writeIndicators(ctx context.Context, a *app, out io.Writer) error {
	r, err := report.NewReporter(a.store, a.logger)
	if err != nil {
		return err
	}
	ind, err := r.Collect(ctx)
	if err != nil {
		return err
	}
	return ind.WriteText(out)
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var force, showMetrics bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Extract, clean and load the source CSV",
		Long: `Extract, clean and load the source CSV. The load is skipped when the
store already contains works unless --force is given, in which case every
row is inserted again as a new record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				m, err := pipeline.NewManager(a.cfg, a.store, a.logger)
				if err != nil {
					return err
				}
				job := pipeline.NewImportJob(a.cfg.Source.CSVPath).WithForce(force)
				result, err := m.Run(cmd.Context(), job)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printImportResult(out, result)
				if showMetrics {
					fmt.Fprint(out, m.Metrics().GenerateMetricsReport())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Load even when the store already contains works")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print phase timings")
	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the aggregate indicators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				return writeIndicators(cmd.Context(), a, cmd.OutOrStdout())
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the aggregate indicators to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				r, err := report.NewReporter(a.store, a.logger)
				if err != nil {
					return err
				}
				ind, err := r.Collect(cmd.Context())
				if err != nil {
					return err
				}
				if err := ind.WriteXLSX(output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indicators written to %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "indicadores.xlsx", "Output workbook path")
	return cmd
}

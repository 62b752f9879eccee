package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
	"expensetracker/internal/sheets/google"
)

type exportFlags struct {
	out      string
	category string
	date     string
}

func exportCmd() *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the (filtered) expense list",
		Long: `Export writes the expenses that match the filter flags. Incomes are
never exported.`,
	}
	cmd.PersistentFlags().StringVar(&flags.out, "out", "", "output directory (default: export_dir from config)")
	cmd.PersistentFlags().StringVar(&flags.category, "category", "", "only this category")
	cmd.PersistentFlags().StringVar(&flags.date, "date", "", "only this day (YYYY-MM-DD)")

	cmd.AddCommand(&cobra.Command{
		Use:   "pdf",
		Short: "Write " + export.DocumentFilename,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags, func(ctx context.Context, l *ledger.Ledger) (export.Result, error) {
				return l.ExportDocument(ctx)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "xlsx",
		Short: "Write " + export.SpreadsheetFilename,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, flags, func(ctx context.Context, l *ledger.Ledger) (export.Result, error) {
				return l.ExportSpreadsheet(ctx)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sheets",
		Short: "Replace the configured Google Sheets tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appConfig.ValidateSheets(); err != nil {
				return err
			}
			client, err := google.New(cmd.Context(), sheetsConfig(), logger)
			if err != nil {
				return err
			}
			return runExport(cmd, flags, func(ctx context.Context, l *ledger.Ledger) (export.Result, error) {
				return l.ExportSpreadsheet(ctx)
			}, ledger.WithSpreadsheetWriter(client))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Write the PDF and XLSX reports side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExportAll(cmd, flags)
		},
	})
	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags, run func(context.Context, *ledger.Ledger) (export.Result, error), extra ...ledger.Option) error {
	filter, err := buildFilter(flags.category, flags.date)
	if err != nil {
		return err
	}
	applyOutDir(flags)

	return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
		l.SetFilter(filter)
		res, err := run(cmd.Context(), l)
		if err != nil {
			return err
		}
		printResult(cmd, res)
		return nil
	}, extra...)
}

// runExportAll renders both files concurrently from one snapshot of the
// filtered list.
func runExportAll(cmd *cobra.Command, flags exportFlags) error {
	filter, err := buildFilter(flags.category, flags.date)
	if err != nil {
		return err
	}
	applyOutDir(flags)

	var expenses []core.Expense
	err = withLedger(cmd.Context(), func(l *ledger.Ledger) error {
		l.SetFilter(filter)
		expenses = l.FilteredExpenses()
		return nil
	})
	if err != nil {
		return err
	}

	results := make([]export.Result, 2)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		res, err := export.NewPDFWriter(appConfig.ExportDir).WriteDocument(ctx, expenses)
		results[0] = res
		return err
	})
	g.Go(func() error {
		res, err := export.NewXLSXWriter(appConfig.ExportDir).WriteSpreadsheet(ctx, expenses)
		results[1] = res
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	for _, res := range results {
		printResult(cmd, res)
	}
	return nil
}

func applyOutDir(flags exportFlags) {
	if flags.out != "" {
		appConfig.ExportDir = flags.out
	}
}

func printResult(cmd *cobra.Command, res export.Result) {
	logger.Info("Export finished", log.FieldDestination, res.Location, log.FieldRows, res.Rows, log.FieldOperation, log.OpExport)
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", res.Rows, res.Location)))
}

func sheetsConfig() google.Config {
	return google.Config{
		SpreadsheetID:      appConfig.GoogleSpreadsheetID,
		SheetName:          appConfig.GoogleSheetName,
		ServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		ServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}
}

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expensetracker/internal/chart"
	"expensetracker/internal/cli"
	"expensetracker/internal/ledger"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, balance and the per-category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(l.Summary()))
				return nil
			})
		},
	}
}

func chartCmd() *cobra.Command {
	var htmlOut string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart expenses by category",
		Long: `Draw the per-category expense breakdown in the terminal, or write an
interactive donut chart page with --html.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				data := l.ChartData()
				if htmlOut == "" {
					fmt.Fprintln(cmd.OutOrStdout(), chart.RenderTerminal(data))
					return nil
				}

				var buf bytes.Buffer
				if err := chart.RenderHTML(&buf, data); err != nil {
					return err
				}
				if err := os.WriteFile(htmlOut, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Chart written to "+htmlOut))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML chart to this file")
	return cmd
}

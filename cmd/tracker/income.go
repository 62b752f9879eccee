package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/ledger"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "income",
		Aliases: []string{"incomes"},
		Short:   "Add and list incomes",
	}
	cmd.AddCommand(incomeAddCmd())
	cmd.AddCommand(incomeListCmd())
	return cmd
}

func incomeAddCmd() *cobra.Command {
	var in ledger.IncomeInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				l.SetIncomeInput(in)
				inc, err := l.AddIncome(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("Added income #%d: %s on %s", inc.ID, inc.Amount.StringFixed(), inc.Date)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Amount, "amount", "", "amount, e.g. 1500")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD")
	return cmd
}

func incomeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List incomes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderIncomes(l.Incomes()))
				return nil
			})
		},
	}
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Add, edit, delete and list expenses",
	}
	cmd.AddCommand(expenseAddCmd())
	cmd.AddCommand(expenseEditCmd())
	cmd.AddCommand(expenseDeleteCmd())
	cmd.AddCommand(expenseListCmd())
	return cmd
}

func expenseAddCmd() *cobra.Command {
	var in ledger.ExpenseInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Example: `  tracker expense add --amount 12.50 --category food --date 2024-01-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				l.SetExpenseInput(in)
				e, err := l.AddExpense(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("Added expense #%d: %s %s on %s", e.ID, e.Amount.StringFixed(), e.Category, e.Date)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Amount, "amount", "", "amount, e.g. 12.50")
	cmd.Flags().StringVar(&in.Category, "category", "", "category name")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD")
	return cmd
}

// expenseEditCmd opens an edit session, overlays the flags that were set on
// the prefilled buffer and commits it.
func expenseEditCmd() *cobra.Command {
	var in ledger.ExpenseInput
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change an existing expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if err := l.EditExpense(id); err != nil {
					return err
				}
				buf := l.ExpenseInput()
				flags := cmd.Flags()
				if flags.Changed("amount") {
					buf.Amount = in.Amount
				}
				if flags.Changed("category") {
					buf.Category = in.Category
				}
				if flags.Changed("date") {
					buf.Date = in.Date
				}
				l.SetExpenseInput(buf)

				e, err := l.UpdateExpense(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
					fmt.Sprintf("Updated expense #%d: %s %s on %s", e.ID, e.Amount.StringFixed(), e.Category, e.Date)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&in.Category, "category", "", "new category")
	cmd.Flags().StringVar(&in.Date, "date", "", "new date as YYYY-MM-DD")
	return cmd
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				removed, err := l.DeleteExpense(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("No expense #%d", id)))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted expense #%d", id)))
				return nil
			})
		},
	}
}

func expenseListCmd() *cobra.Command {
	var category, date string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, optionally filtered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := buildFilter(category, date)
			if err != nil {
				return err
			}
			return withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				l.SetFilter(filter)
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderExpenses(l.FilteredExpenses()))
				return nil
			})
		},
	}
	addFilterFlags(cmd, &category, &date)
	return cmd
}

func addFilterFlags(cmd *cobra.Command, category, date *string) {
	cmd.Flags().StringVar(category, "category", "", "only this category")
	cmd.Flags().StringVar(date, "date", "", "only this day (YYYY-MM-DD)")
}

func buildFilter(category, date string) (core.FilterCriteria, error) {
	f := core.FilterCriteria{Category: category}
	if date != "" {
		d, err := core.ParseDate(date)
		if err != nil {
			return core.FilterCriteria{}, fmt.Errorf("--date %q: %w", date, err)
		}
		f.Date = d
	}
	return f, nil
}

func parseExpenseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return id, nil
}

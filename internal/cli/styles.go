package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#2E7D32")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
)

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// RenderExpenses draws the expense list as an aligned table with the
// record id in the first column.
func RenderExpenses(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses")
	}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, append([]string{fmt.Sprint(e.ID)}, export.DocumentRow(e)...))
	}
	return renderTable(append([]string{"ID"}, export.DocumentHeader...), rows)
}

func RenderIncomes(incomes []core.Income) string {
	if len(incomes) == 0 {
		return SubtleStyle.Render("No incomes")
	}
	rows := make([][]string, 0, len(incomes))
	for _, i := range incomes {
		rows = append(rows, []string{fmt.Sprint(i.ID), i.Date.String(), "$" + i.Amount.String()})
	}
	return renderTable([]string{"ID", "Date", "Amount"}, rows)
}

// RenderSummary shows totals in a box, the balance colored by sign.
func RenderSummary(s core.Summary) string {
	balance := SuccessStyle
	if s.Balance.IsNegative() {
		balance = ErrorStyle
	}
	lines := []string{
		TitleStyle.Render("Summary"),
		fmt.Sprintf("Total income:   $%s", s.TotalIncome.StringFixed()),
		fmt.Sprintf("Total expenses: $%s", s.TotalExpense.StringFixed()),
		"Balance:        " + balance.Render("$"+s.Balance.StringFixed()),
		SubtleStyle.Render(fmt.Sprintf("%d expenses, %d incomes", s.ExpenseCount, s.IncomeCount)),
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(c)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	out := []string{line(header, TableHeaderStyle)}
	for _, r := range rows {
		out = append(out, line(r, lipgloss.NewStyle()))
	}
	return strings.Join(out, "\n")
}

package export

import (
	"strconv"

	"expensetracker/internal/core"
)

var (
	DocumentHeader    = []string{"Date", "Category", "Amount"}
	SpreadsheetHeader = []string{"id", "amount", "category", "date"}
)

// DocumentRow renders one expense as report table cells.
func DocumentRow(e core.Expense) []string {
	return []string{e.Date.String(), e.Category, "$" + e.Amount.String()}
}

// SpreadsheetRow renders one expense as spreadsheet cell values. The amount
// stays numeric so spreadsheet formulas work on it.
func SpreadsheetRow(e core.Expense) []any {
	return []any{e.ID, e.Amount.Float64(), e.Category, e.Date.String()}
}

// SpreadsheetStrings is SpreadsheetRow as text, for targets that only take strings.
func SpreadsheetStrings(e core.Expense) []string {
	return []string{strconv.FormatInt(e.ID, 10), e.Amount.String(), e.Category, e.Date.String()}
}

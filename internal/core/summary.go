package core

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// Summary is the whole-ledger view. Filters never apply to it.
type Summary struct {
	TotalIncome  Money           `json:"total_income"`
	TotalExpense Money           `json:"total_expense"`
	Balance      Money           `json:"balance"`
	ByCategory   []CategoryTotal `json:"by_category"`
	ExpenseCount int             `json:"expense_count"`
	IncomeCount  int             `json:"income_count"`
}

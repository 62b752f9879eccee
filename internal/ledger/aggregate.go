package ledger

import "expensetracker/internal/core"

// CategoryTotals sums amounts per category. Categories appear in the order
// they were first seen.
func CategoryTotals(expenses []core.Expense) []core.CategoryTotal {
	index := make(map[string]int)
	totals := []core.CategoryTotal{}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			index[e.Category] = len(totals)
			totals = append(totals, core.CategoryTotal{Category: e.Category, Amount: e.Amount})
			continue
		}
		totals[i].Amount = totals[i].Amount.Add(e.Amount)
	}
	return totals
}

func TotalExpense(expenses []core.Expense) core.Money {
	amounts := make([]core.Money, len(expenses))
	for i, e := range expenses {
		amounts[i] = e.Amount
	}
	return core.Sum(amounts...)
}

func TotalIncome(incomes []core.Income) core.Money {
	amounts := make([]core.Money, len(incomes))
	for i, in := range incomes {
		amounts[i] = in.Amount
	}
	return core.Sum(amounts...)
}

// Balance is income minus expense and may be negative.
func Balance(incomes []core.Income, expenses []core.Expense) core.Money {
	return TotalIncome(incomes).Sub(TotalExpense(expenses))
}

// Summarize computes the whole-ledger view.
func Summarize(expenses []core.Expense, incomes []core.Income) core.Summary {
	income := TotalIncome(incomes)
	expense := TotalExpense(expenses)
	return core.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		ByCategory:   CategoryTotals(expenses),
		ExpenseCount: len(expenses),
		IncomeCount:  len(incomes),
	}
}

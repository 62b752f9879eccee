package ledger

import "expensetracker/internal/core"

// FilterExpenses returns the records matching criteria, in source order.
// Empty criteria return every record.
func FilterExpenses(all []core.Expense, criteria core.FilterCriteria) []core.Expense {
	out := make([]core.Expense, 0, len(all))
	for _, e := range all {
		if criteria.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists the distinct expense categories in order of first appearance.
func Categories(all []core.Expense) []string {
	seen := make(map[string]struct{}, len(all))
	out := []string{}
	for _, e := range all {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

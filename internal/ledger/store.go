package ledger

import "expensetracker/internal/core"

// RecordStore holds both collections in insertion order.
// Incomes are append-only.
type RecordStore struct {
	expenses []core.Expense
	incomes  []core.Income
}

// NewRecordStore copies the given collections.
func NewRecordStore(expenses []core.Expense, incomes []core.Income) *RecordStore {
	return &RecordStore{
		expenses: append([]core.Expense(nil), expenses...),
		incomes:  append([]core.Income(nil), incomes...),
	}
}

// AddExpense appends a record. It is a no-op returning false when amount,
// category or date is missing.
func (s *RecordStore) AddExpense(id int64, amount core.Money, category string, date core.Date) (core.Expense, bool) {
	e := core.Expense{ID: id, Amount: amount, Category: category, Date: date}
	if e.Validate() != nil {
		return core.Expense{}, false
	}
	s.expenses = append(s.expenses, e)
	return e, true
}

// AddIncome appends a record under the same emptiness guard as AddExpense.
func (s *RecordStore) AddIncome(id int64, amount core.Money, date core.Date) (core.Income, bool) {
	i := core.Income{ID: id, Amount: amount, Date: date}
	if i.Validate() != nil {
		return core.Income{}, false
	}
	s.incomes = append(s.incomes, i)
	return i, true
}

// DeleteExpense removes the record with the given id. Unknown ids are a no-op.
func (s *RecordStore) DeleteExpense(id int64) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	return true
}

// UpdateExpense replaces every mutable field of the matching record in place.
// The id and position are kept. Unknown ids and invalid values are a no-op.
func (s *RecordStore) UpdateExpense(id int64, amount core.Money, category string, date core.Date) (core.Expense, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Expense{}, false
	}
	e := core.Expense{ID: id, Amount: amount, Category: category, Date: date}
	if e.Validate() != nil {
		return core.Expense{}, false
	}
	s.expenses[idx] = e
	return e, true
}

// Expense looks a record up by id.
func (s *RecordStore) Expense(id int64) (core.Expense, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Expense{}, false
	}
	return s.expenses[idx], true
}

// Expenses returns a copy of the expense collection.
func (s *RecordStore) Expenses() []core.Expense {
	return append([]core.Expense(nil), s.expenses...)
}

// Incomes returns a copy of the income collection.
func (s *RecordStore) Incomes() []core.Income {
	return append([]core.Income(nil), s.incomes...)
}

func (s *RecordStore) indexOf(id int64) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

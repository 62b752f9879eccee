package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func exp(id int64, amount, category string, date core.Date) core.Expense {
	return core.Expense{ID: id, Amount: core.MustMoney(amount), Category: category, Date: date}
}

func TestRecordStoreAddGuards(t *testing.T) {
	s := NewRecordStore(nil, nil)
	day := core.NewDate(2024, 1, 1)

	_, ok := s.AddExpense(1, core.Zero, "food", day)
	assert.False(t, ok)
	_, ok = s.AddExpense(1, core.MustMoney("5"), "  ", day)
	assert.False(t, ok)
	_, ok = s.AddExpense(1, core.MustMoney("5"), "food", core.Date{})
	assert.False(t, ok)
	_, ok = s.AddIncome(1, core.MustMoney("5"), core.Date{})
	assert.False(t, ok)
	assert.Empty(t, s.Expenses())
	assert.Empty(t, s.Incomes())

	e, ok := s.AddExpense(1, core.MustMoney("5"), "food", day)
	require.True(t, ok)
	assert.Equal(t, int64(1), e.ID)
	assert.Len(t, s.Expenses(), 1)
}

func TestRecordStoreDeleteIsIdempotent(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	s := NewRecordStore([]core.Expense{exp(1, "5", "food", day), exp(2, "6", "gas", day)}, nil)

	assert.True(t, s.DeleteExpense(1))
	assert.False(t, s.DeleteExpense(1))
	require.Len(t, s.Expenses(), 1)
	assert.Equal(t, int64(2), s.Expenses()[0].ID)
}

func TestRecordStoreUpdateKeepsIDAndPosition(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	s := NewRecordStore([]core.Expense{exp(1, "5", "food", day), exp(2, "6", "gas", day)}, nil)

	next := core.NewDate(2024, 2, 1)
	e, ok := s.UpdateExpense(1, core.MustMoney("9"), "rent", next)
	require.True(t, ok)
	assert.Equal(t, int64(1), e.ID)

	all := s.Expenses()
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, "9", all[0].Amount.String())
	assert.Equal(t, "rent", all[0].Category)
	assert.Equal(t, "2024-02-01", all[0].Date.String())

	_, ok = s.UpdateExpense(99, core.MustMoney("9"), "rent", next)
	assert.False(t, ok)
	assert.Len(t, s.Expenses(), 2)
}

func TestRecordStoreReturnsCopies(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	s := NewRecordStore([]core.Expense{exp(1, "5", "food", day)}, nil)
	got := s.Expenses()
	got[0].Category = "changed"
	assert.Equal(t, "food", s.Expenses()[0].Category)
}

func TestFilterExpenses(t *testing.T) {
	d1, d2 := core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 2)
	all := []core.Expense{
		exp(1, "10", "food", d1),
		exp(2, "20", "gas", d1),
		exp(3, "5", "food", d2),
	}

	tests := []struct {
		name     string
		criteria core.FilterCriteria
		want     []int64
	}{
		{"no criteria keeps everything in order", core.FilterCriteria{}, []int64{1, 2, 3}},
		{"category", core.FilterCriteria{Category: "food"}, []int64{1, 3}},
		{"date", core.FilterCriteria{Date: d1}, []int64{1, 2}},
		{"both", core.FilterCriteria{Category: "food", Date: d2}, []int64{3}},
		{"no match", core.FilterCriteria{Category: "rent"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int64
			for _, e := range FilterExpenses(all, tt.criteria) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCategories(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	all := []core.Expense{exp(1, "1", "gas", day), exp(2, "1", "food", day), exp(3, "1", "gas", day)}
	assert.Equal(t, []string{"gas", "food"}, Categories(all))
	assert.Equal(t, []string{}, Categories(nil))
}

func TestCategoryTotals(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	totals := CategoryTotals([]core.Expense{
		exp(1, "10", "food", day),
		exp(2, "5", "food", day),
		exp(3, "20", "gas", day),
	})
	require.Len(t, totals, 2)
	assert.Equal(t, "food", totals[0].Category)
	assert.Equal(t, "15", totals[0].Amount.String())
	assert.Equal(t, "gas", totals[1].Category)
	assert.Equal(t, "20", totals[1].Amount.String())
}

func TestBalance(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	incomes := []core.Income{
		{ID: 1, Amount: core.MustMoney("100"), Date: day},
		{ID: 2, Amount: core.MustMoney("50"), Date: day},
	}
	expenses := []core.Expense{exp(3, "30", "food", day), exp(4, "20", "gas", day)}

	assert.Equal(t, "150", TotalIncome(incomes).String())
	assert.Equal(t, "50", TotalExpense(expenses).String())
	assert.Equal(t, "100", Balance(incomes, expenses).String())
	assert.True(t, Balance(nil, expenses).IsNegative())

	sum := Summarize(expenses, incomes)
	assert.Equal(t, 2, sum.ExpenseCount)
	assert.Equal(t, 2, sum.IncomeCount)
	assert.Equal(t, "100", sum.Balance.String())
}

func TestClockIDsNeverRepeat(t *testing.T) {
	g := NewClockIDs()
	fixed := g.now()
	g.now = func() time.Time { return fixed }

	a, b := g.NextID(), g.NextID()
	assert.Equal(t, a+1, b)

	g.Observe(b + 100)
	assert.Equal(t, b+101, g.NextID())
}

func TestCodecRoundTrip(t *testing.T) {
	day := core.NewDate(2024, 1, 1)
	in := []core.Expense{exp(2, "12.5", "food", day), exp(1, "3", "gas", day)}

	raw, err := EncodeExpenses(in)
	require.NoError(t, err)
	out, err := DecodeExpenses(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err = EncodeExpenses(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	for _, blank := range []string{"", "null", "  "} {
		got, err := DecodeExpenses(blank)
		require.NoError(t, err, blank)
		assert.Empty(t, got, blank)
	}

	legacy, err := DecodeIncomes(`[{"id":5,"amount":100,"date":"2024-01-01"}]`)
	require.NoError(t, err)
	require.Len(t, legacy, 1)
	assert.Equal(t, "100", legacy[0].Amount.String())

	_, err = DecodeExpenses("{not json")
	assert.Error(t, err)
}

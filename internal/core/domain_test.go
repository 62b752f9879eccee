package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok {
			assert.NoError(t, err, "case %d", i)
		} else {
			assert.ErrorIs(t, err, ErrInvalidDate, "case %d", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-01-01 ")
	require.NoError(t, err)
	assert.True(t, d.SameDay(NewDate(2024, 1, 1)))
	assert.Equal(t, "2024-01-01", d.String())

	for _, bad := range []string{"", "2024-13-01", "01/01/2024", "yesterday"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 2, 29))
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.True(t, d.SameDay(NewDate(2024, 2, 29)))

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &d))
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: 1, Amount: MustMoney("10"), Category: "food", Date: NewDate(2025, 1, 1)}
	require.NoError(t, good.Validate())

	bads := []struct {
		e   Expense
		err error
	}{
		{Expense{Amount: Zero, Category: "food", Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{Expense{Amount: MustMoney("-1"), Category: "food", Date: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{Expense{Amount: MustMoney("1"), Category: "  ", Date: NewDate(2025, 1, 1)}, ErrEmptyCategory},
		{Expense{Amount: MustMoney("1"), Category: "food"}, ErrInvalidDate},
	}
	for i, tc := range bads {
		assert.ErrorIs(t, tc.e.Validate(), tc.err, "case %d", i)
	}
}

func TestIncomeValidate(t *testing.T) {
	assert.NoError(t, Income{Amount: MustMoney("100"), Date: NewDate(2025, 1, 1)}.Validate())
	assert.ErrorIs(t, Income{Amount: Zero, Date: NewDate(2025, 1, 1)}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Income{Amount: MustMoney("1")}.Validate(), ErrInvalidDate)
}

func TestFilterCriteriaMatches(t *testing.T) {
	e := Expense{Category: "food", Date: NewDate(2024, 1, 1)}

	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.True(t, FilterCriteria{}.Matches(e))
	assert.True(t, FilterCriteria{Category: "food"}.Matches(e))
	assert.False(t, FilterCriteria{Category: "Food"}.Matches(e), "category match is exact")
	assert.True(t, FilterCriteria{Date: NewDate(2024, 1, 1)}.Matches(e))
	assert.False(t, FilterCriteria{Date: NewDate(2024, 1, 2)}.Matches(e))
	assert.False(t, FilterCriteria{Category: "food", Date: NewDate(2024, 1, 2)}.Matches(e))
}

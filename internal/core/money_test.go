package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"12.5", "12.5", true},
		{"12,50", "12.5", true},
		{"0.01", "0.01", true},
		{"0.5", "0.5", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1e3", "", false},
		{"1.2.3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.out, got.String(), tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	total := Sum(MustMoney("0.1"), MustMoney("0.2"))
	assert.True(t, total.Equal(MustMoney("0.3")), "decimal sums are exact")

	balance := MustMoney("50").Sub(MustMoney("80.25"))
	assert.True(t, balance.IsNegative())
	assert.Equal(t, "-30.25", balance.String())
	assert.Equal(t, "12.50", MustMoney("12.5").StringFixed())
	assert.True(t, Sum().IsZero())
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(MustMoney("12.5"))
	require.NoError(t, err)
	assert.Equal(t, `"12.5"`, string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`12.5`), &m), "bare numbers are accepted")
	assert.True(t, m.Equal(MustMoney("12.5")))

	require.NoError(t, json.Unmarshal([]byte(`"20"`), &m))
	assert.True(t, m.Equal(MustMoney("20")))

	assert.ErrorIs(t, json.Unmarshal([]byte(`"twelve"`), &m), ErrInvalidAmount)
}

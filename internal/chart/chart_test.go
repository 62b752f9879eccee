package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func TestFromTotals(t *testing.T) {
	d := FromTotals([]core.CategoryTotal{
		{Category: "food", Amount: core.MustMoney("30")},
		{Category: "rent", Amount: core.MustMoney("12.5")},
	})
	assert.Equal(t, []string{"food", "rent"}, d.Labels)
	assert.Equal(t, []float64{30, 12.5}, d.Values)

	empty := FromTotals(nil)
	assert.True(t, empty.Empty())
	assert.NotNil(t, empty.Labels)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Data{Labels: []string{"food"}, Values: []float64{30}}))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "food")

	err := RenderHTML(&buf, Data{Labels: []string{"food"}})
	assert.Error(t, err)
}

func TestRenderTerminal(t *testing.T) {
	out := RenderTerminal(Data{Labels: []string{"food", "rent"}, Values: []float64{30, 10}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "food")
	assert.Contains(t, lines[0], "30.00")
	assert.Contains(t, lines[1], "25%")

	assert.Contains(t, RenderTerminal(Data{}), "No expenses")
}

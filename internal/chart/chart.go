// Package chart turns category totals into a donut chart, either as a
// standalone HTML page or as a terminal breakdown.
package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"expensetracker/internal/core"
)

// Data is a label list and a value list of the same length.
type Data struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Palette is the series color order. It repeats for more categories.
var Palette = []string{"#2e7d32", "#43a047", "#66bb6a", "#81c784", "#a5d6a7", "#1b5e20", "#388e3c", "#c8e6c9"}

// FromTotals converts aggregated totals into chart data, keeping order.
func FromTotals(totals []core.CategoryTotal) Data {
	d := Data{Labels: make([]string, 0, len(totals)), Values: make([]float64, 0, len(totals))}
	for _, t := range totals {
		d.Labels = append(d.Labels, t.Category)
		d.Values = append(d.Values, t.Amount.Float64())
	}
	return d
}

func (d Data) Empty() bool {
	return len(d.Labels) == 0
}

// RenderHTML writes a self-contained echarts page with a donut series.
func RenderHTML(w io.Writer, d Data) error {
	if len(d.Labels) != len(d.Values) {
		return fmt.Errorf("chart data mismatch: %d labels, %d values", len(d.Labels), len(d.Values))
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Expense Breakdown"}),
		charts.WithTitleOpts(opts.Title{Title: "Expenses by category"}),
		charts.WithColorsOpts(opts.Colors(Palette)),
	)

	items := make([]opts.PieData, 0, len(d.Labels))
	for i, label := range d.Labels {
		items = append(items, opts.PieData{Name: label, Value: d.Values[i]})
	}
	pie.AddSeries("Expenses", items).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)

	if err := pie.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

const barWidth = 30

var (
	labelStyle = lipgloss.NewStyle().Width(16)
	valueStyle = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderTerminal draws one proportional bar per category.
func RenderTerminal(d Data) string {
	if d.Empty() {
		return mutedStyle.Render("No expenses recorded")
	}

	var total float64
	for _, v := range d.Values {
		total += v
	}

	var b strings.Builder
	for i, label := range d.Labels {
		share := 0.0
		if total > 0 {
			share = d.Values[i] / total
		}
		n := int(share*barWidth + 0.5)
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(Palette[i%len(Palette)])).
			Render(strings.Repeat("█", n))

		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(label),
			valueStyle.Render(fmt.Sprintf("%.2f", d.Values[i])),
			" ",
			bar,
			mutedStyle.Render(fmt.Sprintf(" %3.0f%%", share*100)),
		))
		if i < len(d.Labels)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

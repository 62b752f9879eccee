package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONLoggerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentApp, Output: &buf}).
		WithComponent(ComponentLedger)

	e := core.Expense{ID: 7, Amount: core.MustMoney("12.5"), Category: "food", Date: core.NewDate(2024, 1, 1)}
	logger.InfoContext(context.Background(), "Expense added", NewFields().WithExpense(e).ToSlice()...)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "Expense added", rec["msg"])
	assert.Equal(t, ComponentLedger, rec[FieldComponent])
	assert.Equal(t, "12.5", rec[FieldAmount])
	assert.Equal(t, "2024-01-01", rec[FieldDate])
	assert.EqualValues(t, 7, rec[FieldRecordID])
}

func TestFromContextFallsBack(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.Equal(t, "unknown", l.Component())

	stored := Discard().WithComponent(ComponentHTTP)
	assert.Same(t, stored, FromContext(NewContext(context.Background(), stored)))
}

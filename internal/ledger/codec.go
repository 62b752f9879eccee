package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// EncodeExpenses serializes the collection as a JSON array. A nil slice
// encodes as [] so the stored entry is always a list.
func EncodeExpenses(expenses []core.Expense) (string, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	b, err := json.Marshal(expenses)
	if err != nil {
		return "", fmt.Errorf("encode expenses: %w", err)
	}
	return string(b), nil
}

func EncodeIncomes(incomes []core.Income) (string, error) {
	if incomes == nil {
		incomes = []core.Income{}
	}
	b, err := json.Marshal(incomes)
	if err != nil {
		return "", fmt.Errorf("encode incomes: %w", err)
	}
	return string(b), nil
}

// DecodeExpenses parses a stored entry. Blank text and JSON null decode to
// an empty collection.
func DecodeExpenses(s string) ([]core.Expense, error) {
	var out []core.Expense
	if err := decode(s, &out); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return out, nil
}

func DecodeIncomes(s string) ([]core.Income, error) {
	var out []core.Income
	if err := decode(s, &out); err != nil {
		return nil, fmt.Errorf("decode incomes: %w", err)
	}
	return out, nil
}

func decode(s string, v any) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

// LoadExpenses reads the stored expense collection. Unlike New it does not
// fall back to an empty list: read and decode failures are returned. A
// missing entry is an empty ledger, not an error.
func LoadExpenses(ctx context.Context, store storage.Store) ([]core.Expense, error) {
	raw, found, err := store.Load(ctx, ExpensesKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ExpensesKey, err)
	}
	if !found {
		return []core.Expense{}, nil
	}
	out, err := DecodeExpenses(raw)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []core.Expense{}
	}
	return out, nil
}

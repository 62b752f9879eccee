package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/storage"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, found, err := s.Load(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, "expenses", "[]"))
	v, found, err := s.Load(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)

	require.NoError(t, storage.SaveAll(ctx, s, []storage.Entry{
		{Key: "expenses", Value: "[1]"},
		{Key: "incomes", Value: "[2]"},
	}))
	assert.Equal(t, 2, s.Saves(), "batch counts as one save")
}

func TestNewFromDirSeeds(t *testing.T) {
	dir := t.TempDir()
	// No files -> empty store
	s := NewFromDir(dir)
	_, found, _ := s.Load(context.Background(), "expenses")
	assert.False(t, found)

	mustWrite := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	mustWrite("expenses.json", "\n[{\"id\":1}]\n")
	mustWrite("incomes.json", "   ")

	s = NewFromDir(dir)
	v, found, _ := s.Load(context.Background(), "expenses")
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, v)

	_, found, _ = s.Load(context.Background(), "incomes")
	assert.False(t, found, "blank seed files are skipped")
}

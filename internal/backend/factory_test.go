package backend

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/config"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPQueue: "q"})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "x.db", cfg.SQLiteDBPath)
	assert.Equal(t, "data", cfg.DataDirectory)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: MemoryBackend, AMQPURL: "amqp://x"}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Equal(t, []string{"sqlite", "memory"}, GetBackendTypeStrings())
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(log.Discard()).CreateBackend(context.Background(),
		Config{Type: MemoryBackend, DataDirectory: t.TempDir()})
	require.NoError(t, err)
	assert.Nil(t, res.Notifier)
	assert.Empty(t, res.LedgerOptions())
	assert.NoError(t, res.Close())
}

func TestCreateSQLiteBackendPersists(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "db", "tracker.db")}
	factory := NewFactory(nil)

	res, err := factory.CreateBackend(ctx, cfg)
	require.NoError(t, err)
	l := ledger.New(ctx, res.Store, res.LedgerOptions()...)
	l.SetIncomeInput(ledger.IncomeInput{Amount: "100", Date: "2024-01-01"})
	_, err = l.AddIncome(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Close())

	res, err = factory.CreateBackend(ctx, cfg)
	require.NoError(t, err)
	defer res.Close()
	assert.Len(t, ledger.New(ctx, res.Store).Incomes(), 1)
}

func TestCreateSQLiteBackendReportsStoredKeys(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "tracker.db")}

	res, err := NewFactory(nil).CreateBackend(ctx, cfg)
	require.NoError(t, err)
	l := ledger.New(ctx, res.Store)
	l.SetIncomeInput(ledger.IncomeInput{Amount: "100", Date: "2024-01-01"})
	_, err = l.AddIncome(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Close())

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelInfo, Format: "json", Output: &buf})
	res, err = NewFactory(logger).CreateBackend(ctx, cfg)
	require.NoError(t, err)
	defer res.Close()

	assert.Contains(t, buf.String(), `"msg":"Initialized SQLite backend"`)
	assert.Contains(t, buf.String(), `"stored_keys":["expenses","incomes"]`)
}

package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

type recordedCall struct {
	method string
	path   string
	body   string
}

func fakeSheets(t *testing.T, sheetName string) (*Client, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			_, _ = io.WriteString(w, `{"updatedRange":"Expenses!A1:D3"}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithoutAuthentication(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewWithService(svc, "sheet-id", sheetName, log.Discard()), &calls
}

func TestWriteSpreadsheetClearsThenWrites(t *testing.T) {
	client, calls := fakeSheets(t, "")
	expenses := []core.Expense{
		{ID: 1, Amount: core.MustMoney("12.5"), Category: "food", Date: core.NewDate(2024, 1, 1)},
		{ID: 2, Amount: core.MustMoney("3"), Category: "gas", Date: core.NewDate(2024, 1, 2)},
	}

	res, err := client.WriteSpreadsheet(context.Background(), expenses)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "Expenses!A1:D3", res.Location)

	require.Len(t, *calls, 2)
	clearCall, updateCall := (*calls)[0], (*calls)[1]
	assert.Equal(t, http.MethodPost, clearCall.method)
	assert.True(t, strings.HasSuffix(clearCall.path, ":clear"), clearCall.path)
	assert.Contains(t, clearCall.path, "sheet-id")
	assert.Contains(t, clearCall.path, "'Expenses'!A:D")

	assert.Equal(t, http.MethodPut, updateCall.method)
	var vr struct {
		Values [][]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(updateCall.body), &vr))
	require.Len(t, vr.Values, 3)
	assert.Equal(t, []any{"id", "amount", "category", "date"}, vr.Values[0])
	assert.Equal(t, []any{float64(1), 12.5, "food", "2024-01-01"}, vr.Values[1])
}

func TestWriteSpreadsheetQuotesSheetName(t *testing.T) {
	client, calls := fakeSheets(t, "Household 2024")

	_, err := client.WriteSpreadsheet(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Contains(t, (*calls)[0].path, "'Household 2024'!A:D")
	assert.Contains(t, (*calls)[1].path, "'Household 2024'!A1")
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Expenses'!A1", a1Range("Expenses", "A1"))
	assert.Equal(t, "'Bob''s tab'!A:D", a1Range("Bob's tab", "A:D"))
}

func TestToValuesHeaderOnly(t *testing.T) {
	values := toValues(nil)
	require.Len(t, values, 1)
	assert.Len(t, values[0], 4)
}

func TestCredentials(t *testing.T) {
	_, err := credentials(Config{})
	assert.Error(t, err)

	got, err := credentials(Config{ServiceAccountJSON: `{"type":"service_account"}`, ServiceAccountFile: "/nope"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, string(got))

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from":"file"}`), 0o600))
	got, err = credentials(Config{ServiceAccountFile: path})
	require.NoError(t, err)
	assert.Equal(t, `{"from":"file"}`, string(got))

	_, err = credentials(Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{ServiceAccountJSON: "{}"}, nil)
	assert.ErrorContains(t, err, "spreadsheet id")
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/storage/memory"
)

func newTestServer(t *testing.T, opts ...ledger.Option) *Server {
	t.Helper()
	opts = append([]ledger.Option{ledger.WithIDGenerator(&ledger.SequenceIDs{})}, opts...)
	l := ledger.New(context.Background(), memory.New(), opts...)
	return NewServer(":0", services.NewLedgerService(l, nil), log.Discard())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.HasPrefix(strings.TrimSpace(body), "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestReadyReportsRevisionAndRequestCounters(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/api/expenses", `{"amount": 4, "category": "food", "date": "2024-01-01"}`)
	do(t, s, http.MethodDelete, "/api/expenses/abc", "")

	rec := do(t, s, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[readiness](t, rec)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, uint64(1), body.Revision)
	assert.Equal(t, int64(3), body.Requests.TotalRequests)
	assert.Equal(t, int64(1), body.Requests.FailedRequests)
}

func TestCreateExpenseJSONAndForm(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/expenses", `{"amount": 12.5, "category": "food", "date": "2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	e := decode[core.Expense](t, rec)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "12.5", e.Amount.String())

	rec = do(t, s, http.MethodPost, "/api/expenses", "amount=3&category=gas&date=2024-01-02")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decode[struct {
		Revision   uint64         `json:"revision"`
		Categories []string       `json:"categories"`
		Expenses   []core.Expense `json:"expenses"`
	}](t, do(t, s, http.MethodGet, "/api/expenses", ""))
	assert.Equal(t, uint64(2), list.Revision)
	assert.Equal(t, []string{"food", "gas"}, list.Categories)
	assert.Len(t, list.Expenses, 2)
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
		kind string
	}{
		{"missing category", `{"amount":"5","date":"2024-01-01"}`, http.StatusUnprocessableEntity, "missing_field"},
		{"bad amount", `{"amount":"abc","category":"food","date":"2024-01-01"}`, http.StatusUnprocessableEntity, "invalid_amount"},
		{"bad date", `{"amount":"5","category":"food","date":"01/02/2024"}`, http.StatusUnprocessableEntity, "invalid_date"},
		{"broken json", `{"amount":`, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/expenses", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.kind, decode[ErrorBody](t, rec).Code)
		})
	}

	list := decode[map[string]json.RawMessage](t, do(t, s, http.MethodGet, "/api/expenses", ""))
	assert.JSONEq(t, `[]`, string(list["expenses"]))
}

func TestEditSessionOverHTTP(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, s, http.MethodPost, "/api/expenses", `{"amount":"10","category":"food","date":"2024-01-01"}`).Code)

	rec := do(t, s, http.MethodPost, "/api/expenses/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "empty buffer in adding mode")

	v := decode[services.View](t, do(t, s, http.MethodPost, "/api/expenses/1/edit", ""))
	assert.Equal(t, "editing", v.Mode)
	assert.Equal(t, "10", v.ExpenseInput.Amount)

	do(t, s, http.MethodPut, "/api/expenses/input", `{"amount":"20","category":"food","date":"2024-01-01"}`)
	rec = do(t, s, http.MethodPost, "/api/expenses/submit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e := decode[core.Expense](t, rec)
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "20", e.Amount.String())

	v = decode[services.View](t, do(t, s, http.MethodPost, "/api/expenses/cancel", ""))
	assert.Equal(t, "adding", v.Mode)
	assert.Nil(t, v.EditingID)
	require.Len(t, v.Expenses, 1)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"10","category":"food","date":"2024-01-01"}`)

	rec := do(t, s, http.MethodPut, "/api/expenses/1", `{"amount":"11","category":"rent","date":"2024-01-03"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "rent", decode[core.Expense](t, rec).Category)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPut, "/api/expenses/9", `{"amount":"1","category":"x","date":"2024-01-01"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/api/expenses/9/edit", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodDelete, "/api/expenses/abc", "").Code)

	del := decode[map[string]any](t, do(t, s, http.MethodDelete, "/api/expenses/1", ""))
	assert.Equal(t, true, del["deleted"])
	del = decode[map[string]any](t, do(t, s, http.MethodDelete, "/api/expenses/1", ""))
	assert.Equal(t, false, del["deleted"])
}

func TestFilterLeavesSummaryAlone(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"10","category":"food","date":"2024-01-01"}`)
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"20","category":"gas","date":"2024-01-02"}`)
	rec := do(t, s, http.MethodPost, "/api/incomes", `{"amount":"100","date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	v := decode[services.View](t, do(t, s, http.MethodPut, "/api/filter", `{"category":"food"}`))
	require.Len(t, v.Expenses, 1)
	assert.Equal(t, "food", v.Expenses[0].Category)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, s, http.MethodPut, "/api/filter", `{"date":"nope"}`).Code)

	sum := decode[core.Summary](t, do(t, s, http.MethodGet, "/api/summary", ""))
	assert.Equal(t, "30", sum.TotalExpense.String())
	assert.Equal(t, "70", sum.Balance.String())

	f := decode[core.FilterCriteria](t, do(t, s, http.MethodGet, "/api/filter", ""))
	assert.Equal(t, "food", f.Category)
}

func TestSummaryCacheFollowsRevision(t *testing.T) {
	s := newTestServer(t)
	sum := decode[core.Summary](t, do(t, s, http.MethodGet, "/api/summary", ""))
	assert.True(t, sum.TotalExpense.IsZero())

	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"4","category":"food","date":"2024-01-01"}`)
	sum = decode[core.Summary](t, do(t, s, http.MethodGet, "/api/summary", ""))
	assert.Equal(t, "4", sum.TotalExpense.String())
	assert.Equal(t, 2, s.summaryCache.Size())
}

func TestChart(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"4","category":"food","date":"2024-01-01"}`)

	rec := do(t, s, http.MethodGet, "/api/chart?format=json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":["food"],"values":[4]}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "food")
}

func TestDownloadReports(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"4","category":"food","date":"2024-01-01"}`)

	rec := do(t, s, http.MethodGet, "/api/export/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), export.DocumentFilename)

	rec = do(t, s, http.MethodGet, "/api/export/xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/export/csv", "").Code)
}

func TestExportToDisk(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, ledger.WithDocumentWriter(export.NewPDFWriter(dir)))
	do(t, s, http.MethodPost, "/api/expenses", `{"amount":"4","category":"food","date":"2024-01-01"}`)

	rec := do(t, s, http.MethodPost, "/api/export/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[export.Result](t, rec)
	assert.Equal(t, filepath.Join(dir, export.DocumentFilename), res.Location)
	assert.Equal(t, 1, res.Rows)

	rec = do(t, s, http.MethodPost, "/api/export/xlsx", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "no_writer", decode[ErrorBody](t, rec).Code)
}

func TestParserStringValue(t *testing.T) {
	assert.Equal(t, "12.5", stringValue(12.5))
	assert.Equal(t, "100000000", stringValue(1e8))
	assert.Equal(t, "true", stringValue(true))
	assert.Equal(t, "", stringValue(nil))
	assert.Equal(t, "food", sanitizeInput("  fo\x00od\n"))
}

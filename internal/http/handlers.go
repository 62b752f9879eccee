package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"expensetracker/internal/chart"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	v := s.svc.View()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"revision":   v.Revision,
		"filter":     v.Filter,
		"categories": v.Categories,
		"expenses":   v.Expenses,
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.AddExpense(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Expense added",
		log.NewFields().WithExpense(e).WithOperation(log.OpCreate).ToSlice()...)
	writeJSON(w, r, http.StatusCreated, e)
}

// handleUpdateExpense replaces the values of an existing expense in one call.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := parseExpenseInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.UpdateExpense(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	removed, err := s.svc.DeleteExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"id": id, "deleted": removed})
}

// handleEditExpense opens an edit session and returns the view with the
// input buffer prefilled.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := s.svc.EditExpense(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleSetExpenseInput(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.svc.SetExpenseInput(in))
}

// handleSubmit adds or updates depending on the current mode.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Submit(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, e)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.svc.CancelEdit())
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	v := s.svc.View()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"revision": v.Revision,
		"incomes":  v.Incomes,
	})
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	in, err := parseIncomeInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	inc, err := s.svc.AddIncome(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Income added",
		log.NewFields().WithIncome(inc).WithOperation(log.OpCreate).ToSlice()...)
	writeJSON(w, r, http.StatusCreated, inc)
}

func (s *Server) handleGetFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.svc.View().Filter)
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	c, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.svc.SetFilter(c))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	key := strconv.FormatUint(s.svc.Revision(), 10)
	sum, ok := s.summaryCache.Get(key)
	if !ok {
		sum = s.svc.Summary()
		s.summaryCache.Set(key, sum)
	}
	writeJSON(w, r, http.StatusOK, sum)
}

// handleChart serves the category breakdown as an HTML page by default and
// as raw series with ?format=json.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, r, http.StatusOK, s.svc.ChartData())
		return
	}

	key := strconv.FormatUint(s.svc.Revision(), 10)
	page, ok := s.chartCache.Get(key)
	if !ok {
		var buf bytes.Buffer
		if err := chart.RenderHTML(&buf, s.svc.ChartData()); err != nil {
			writeError(w, r, err)
			return
		}
		page = buf.Bytes()
		s.chartCache.Set(key, page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// handleDownload streams a report of the filtered expenses.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	expenses := s.svc.FilteredExpenses()

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	switch r.PathValue("format") {
	case "pdf":
		err = export.RenderPDF(&buf, expenses)
		contentType, filename = "application/pdf", export.DocumentFilename
	case "xlsx":
		err = export.RenderXLSX(&buf, expenses)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = export.SpreadsheetFilename
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Report downloaded",
		log.FieldOperation, log.OpExport, log.FieldRows, len(expenses), "file", filename)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExport runs the configured writer, which saves to disk or to the
// remote spreadsheet.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var (
		res export.Result
		err error
	)
	switch r.PathValue("format") {
	case "pdf":
		res, err = s.svc.ExportDocument(r.Context())
	case "xlsx":
		res, err = s.svc.ExportSpreadsheet(r.Context())
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

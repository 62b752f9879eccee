package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
)

// maxBodyBytes caps request bodies. Ledger payloads are a handful of fields.
const maxBodyBytes = 64 << 10

var errMalformedBody = errors.New("malformed request body")

// RequestBodyParser accepts either a JSON object or a form-encoded body and
// exposes both through Get. JSON numbers are rendered without exponent so
// {"amount": 12.5} reads the same as amount=12.5.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}
	if trimmed[0] == '{' {
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = errMalformedBody
		}
		return p.err
	}
	if p.formData, p.err = url.ParseQuery(trimmed); p.err != nil {
		p.err = errMalformedBody
	}
	return p.err
}

// Get returns the sanitized value of key, or "" when absent.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if v, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(v))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s))
}

func parseExpenseInput(r *http.Request) (ledger.ExpenseInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return ledger.ExpenseInput{}, err
	}
	return ledger.ExpenseInput{
		Amount:   p.Get("amount"),
		Category: p.Get("category"),
		Date:     p.Get("date"),
	}, nil
}

func parseIncomeInput(r *http.Request) (ledger.IncomeInput, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return ledger.IncomeInput{}, err
	}
	return ledger.IncomeInput{Amount: p.Get("amount"), Date: p.Get("date")}, nil
}

// parseFilter reads category and date. An empty date clears that criterion;
// anything else must be YYYY-MM-DD.
func parseFilter(r *http.Request) (core.FilterCriteria, error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return core.FilterCriteria{}, err
	}
	c := core.FilterCriteria{Category: p.Get("category")}
	if raw := p.Get("date"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return core.FilterCriteria{}, err
		}
		c.Date = d
	}
	return c, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

var errInvalidID = errors.New("invalid expense id")

package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for input, persistence and exports.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64  `json:"id"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
		Date     Date   `json:"date"`
	}

	// Income has no category and is append-only.
	Income struct {
		ID     int64 `json:"id"`
		Amount Money `json:"amount"`
		Date   Date  `json:"date"`
	}

	// FilterCriteria narrows the visible expense list. Zero values disable a criterion.
	FilterCriteria struct {
		Category string `json:"category"`
		Date     Date   `json:"date"`
	}
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotEditing      = errors.New("no expense is being edited")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether both dates name the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	return i.Date.Validate()
}

// IsEmpty reports whether no criterion is active.
func (f FilterCriteria) IsEmpty() bool {
	return f.Category == "" && f.Date.IsZero()
}

// Matches applies exact-match semantics on category and date.
func (f FilterCriteria) Matches(e Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.Date.IsZero() && !e.Date.SameDay(f.Date) {
		return false
	}
	return true
}

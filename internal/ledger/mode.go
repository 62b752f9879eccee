package ledger

import (
	"strings"

	"expensetracker/internal/core"
)

// InputMode is either Adding or Editing. The expense input buffer always
// belongs to the active mode.
type InputMode interface {
	isInputMode()
	String() string
}

// Adding is the default mode: submitting the buffer creates a new expense.
type Adding struct{}

// Editing means the buffer holds pending changes for TargetID.
type Editing struct {
	TargetID int64
}

func (Adding) isInputMode()  {}
func (Editing) isInputMode() {}

func (Adding) String() string  { return "adding" }
func (Editing) String() string { return "editing" }

// EditTarget returns the id under edit, if any.
func EditTarget(m InputMode) (int64, bool) {
	if e, ok := m.(Editing); ok {
		return e.TargetID, true
	}
	return 0, false
}

// ExpenseInput is the raw text typed into the expense form.
type ExpenseInput struct {
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// IncomeInput is the raw text typed into the income form.
type IncomeInput struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func (in ExpenseInput) parse() (core.Money, string, core.Date, error) {
	if blank(in.Amount) || blank(in.Category) || blank(in.Date) {
		return core.Zero, "", core.Date{}, core.ErrMissingField
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Zero, "", core.Date{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Zero, "", core.Date{}, err
	}
	return amount, strings.TrimSpace(in.Category), date, nil
}

func (in IncomeInput) parse() (core.Money, core.Date, error) {
	if blank(in.Amount) || blank(in.Date) {
		return core.Zero, core.Date{}, core.ErrMissingField
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Zero, core.Date{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Zero, core.Date{}, err
	}
	return amount, date, nil
}

func fromExpense(e core.Expense) ExpenseInput {
	return ExpenseInput{Amount: e.Amount.String(), Category: e.Category, Date: e.Date.String()}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Package services serializes access to a Ledger for concurrent callers.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"expensetracker/internal/chart"
	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
)

// View is a consistent snapshot of everything a client renders.
type View struct {
	Revision     uint64              `json:"revision"`
	Mode         string              `json:"mode"`
	EditingID    *int64              `json:"editing_id,omitempty"`
	ExpenseInput ledger.ExpenseInput `json:"expense_input"`
	IncomeInput  ledger.IncomeInput  `json:"income_input"`
	Filter       core.FilterCriteria `json:"filter"`
	Categories   []string            `json:"categories"`
	Expenses     []core.Expense      `json:"expenses"`
	Incomes      []core.Income       `json:"incomes"`
	Summary      core.Summary        `json:"summary"`
}

// LedgerService owns one Ledger and takes a lock around every call.
type LedgerService struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	cleanup func() error
}

func NewLedgerService(l *ledger.Ledger, cleanup func() error) *LedgerService {
	return &LedgerService{ledger: l, cleanup: cleanup}
}

func (s *LedgerService) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *LedgerService) view() View {
	l := s.ledger
	v := View{
		Revision:     l.Revision(),
		Mode:         l.Mode().String(),
		ExpenseInput: l.ExpenseInput(),
		IncomeInput:  l.IncomeInput(),
		Filter:       l.Filter(),
		Categories:   l.Categories(),
		Expenses:     nonNil(l.FilteredExpenses()),
		Incomes:      nonNil(l.Incomes()),
		Summary:      l.Summary(),
	}
	if id, ok := ledger.EditTarget(l.Mode()); ok {
		v.EditingID = &id
	}
	return v
}

func (s *LedgerService) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Revision()
}

// AddExpense fills the expense buffer and adds it in one step.
func (s *LedgerService) AddExpense(ctx context.Context, in ledger.ExpenseInput) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetExpenseInput(in)
	return s.ledger.AddExpense(ctx)
}

func (s *LedgerService) AddIncome(ctx context.Context, in ledger.IncomeInput) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetIncomeInput(in)
	return s.ledger.AddIncome(ctx)
}

func (s *LedgerService) SetExpenseInput(in ledger.ExpenseInput) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetExpenseInput(in)
	return s.view()
}

func (s *LedgerService) EditExpense(id int64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.EditExpense(id); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// Submit commits the expense buffer in the current mode.
func (s *LedgerService) Submit(ctx context.Context) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Submit(ctx)
}

// UpdateExpense edits id with the given values as a single call.
func (s *LedgerService) UpdateExpense(ctx context.Context, id int64, in ledger.ExpenseInput) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.EditExpense(id); err != nil {
		return core.Expense{}, err
	}
	s.ledger.SetExpenseInput(in)
	e, err := s.ledger.UpdateExpense(ctx)
	if err != nil && ledger.IsValidationError(err) {
		s.ledger.CancelEdit()
	}
	return e, err
}

func (s *LedgerService) CancelEdit() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.CancelEdit()
	return s.view()
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.DeleteExpense(ctx, id)
}

func (s *LedgerService) SetFilter(c core.FilterCriteria) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.SetFilter(c)
	return s.view()
}

func (s *LedgerService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Summary()
}

func (s *LedgerService) ChartData() chart.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ChartData()
}

// FilteredExpenses is the list exports are built from.
func (s *LedgerService) FilteredExpenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.FilteredExpenses()
}

func (s *LedgerService) ExportDocument(ctx context.Context) (export.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ExportDocument(ctx)
}

func (s *LedgerService) ExportSpreadsheet(ctx context.Context) (export.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ExportSpreadsheet(ctx)
}

// Close releases the backend. It is safe to call more than once.
func (s *LedgerService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleanup == nil {
		return nil
	}
	err := s.cleanup()
	s.cleanup = nil
	if err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the addressed expense does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrExpenseNotFound)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

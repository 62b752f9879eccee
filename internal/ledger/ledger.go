// Package ledger owns the expense and income collections together with the
// transient form state that drives them. A Ledger is single-owner: callers
// that share one across goroutines must serialize access.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/chart"
	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// Persistence keys.
const (
	ExpensesKey = "expenses"
	IncomesKey  = "incomes"
)

// ChangeNotifier is told about every persisted mutation.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, change core.Change) error
}

// DefaultNotifyTimeout bounds how long a mutation waits on its change
// notification. A slow or unreachable broker costs at most this much.
const DefaultNotifyTimeout = 2 * time.Second

type Ledger struct {
	store         storage.Store
	records       *RecordStore
	ids           IDGenerator
	notifier      ChangeNotifier
	notifyTimeout time.Duration
	document export.DocumentWriter
	sheet    export.SpreadsheetWriter
	logger   *log.Logger
	now      func() time.Time

	expenseInput ExpenseInput
	incomeInput  IncomeInput
	filter       core.FilterCriteria
	mode         InputMode
	revision     uint64
}

type Option func(*Ledger)

func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) { l.ids = g }
}

func WithNotifier(n ChangeNotifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithNotifyTimeout overrides DefaultNotifyTimeout. Zero or negative
// disables the bound.
func WithNotifyTimeout(d time.Duration) Option {
	return func(l *Ledger) { l.notifyTimeout = d }
}

func WithDocumentWriter(w export.DocumentWriter) Option {
	return func(l *Ledger) { l.document = w }
}

func WithSpreadsheetWriter(w export.SpreadsheetWriter) Option {
	return func(l *Ledger) { l.sheet = w }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.logger = logger.WithComponent(log.ComponentLedger) }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New loads both collections from store. Missing or unreadable entries
// start empty; a corrupt entry is logged and otherwise ignored.
func New(ctx context.Context, store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:         store,
		ids:           NewClockIDs(),
		notifyTimeout: DefaultNotifyTimeout,
		logger:        log.Discard().WithComponent(log.ComponentLedger),
		now:           time.Now,
		mode:          Adding{},
	}
	for _, opt := range opts {
		opt(l)
	}

	expenses := loadCollection(ctx, l, ExpensesKey, DecodeExpenses)
	incomes := loadCollection(ctx, l, IncomesKey, DecodeIncomes)
	for _, e := range expenses {
		l.ids.Observe(e.ID)
	}
	for _, i := range incomes {
		l.ids.Observe(i.ID)
	}
	l.records = NewRecordStore(expenses, incomes)

	l.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"expenses", len(expenses),
		"incomes", len(incomes))
	return l
}

func loadCollection[T any](ctx context.Context, l *Ledger, key string, decode func(string) ([]T, error)) []T {
	raw, found, err := l.store.Load(ctx, key)
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to load collection, starting empty",
			log.FieldCollection, key, log.FieldError, err)
		return nil
	}
	if !found {
		return nil
	}
	out, err := decode(raw)
	if err != nil {
		l.logger.WarnContext(ctx, "Stored collection is corrupt, starting empty",
			log.FieldCollection, key, log.FieldError, err)
		return nil
	}
	return out
}

func (l *Ledger) SetExpenseInput(in ExpenseInput) { l.expenseInput = in }
func (l *Ledger) ExpenseInput() ExpenseInput     { return l.expenseInput }
func (l *Ledger) SetIncomeInput(in IncomeInput)   { l.incomeInput = in }
func (l *Ledger) IncomeInput() IncomeInput       { return l.incomeInput }

// SetFilter replaces the active criteria. It only changes the visible list.
func (l *Ledger) SetFilter(c core.FilterCriteria) { l.filter = c }
func (l *Ledger) Filter() core.FilterCriteria     { return l.filter }
func (l *Ledger) Mode() InputMode                 { return l.mode }

// Revision counts persisted mutations since construction.
func (l *Ledger) Revision() uint64 { return l.revision }

// AddExpense records the expense buffer as a new expense. Any edit session
// in progress is abandoned.
func (l *Ledger) AddExpense(ctx context.Context) (core.Expense, error) {
	amount, category, date, err := l.expenseInput.parse()
	if err != nil {
		return core.Expense{}, err
	}
	e, ok := l.records.AddExpense(l.ids.NextID(), amount, category, date)
	if !ok {
		return core.Expense{}, core.ErrMissingField
	}
	l.expenseInput = ExpenseInput{}
	l.mode = Adding{}

	l.logger.InfoContext(ctx, "Expense added", log.NewFields().WithExpense(e).ToSlice()...)
	return e, l.commit(ctx, core.Expenses, core.OpCreate, e.ID)
}

func (l *Ledger) AddIncome(ctx context.Context) (core.Income, error) {
	amount, date, err := l.incomeInput.parse()
	if err != nil {
		return core.Income{}, err
	}
	i, ok := l.records.AddIncome(l.ids.NextID(), amount, date)
	if !ok {
		return core.Income{}, core.ErrMissingField
	}
	l.incomeInput = IncomeInput{}

	l.logger.InfoContext(ctx, "Income added", log.NewFields().WithIncome(i).ToSlice()...)
	return i, l.commit(ctx, core.Incomes, core.OpCreate, i.ID)
}

// EditExpense loads the record into the expense buffer and starts an edit
// session for it.
func (l *Ledger) EditExpense(id int64) error {
	e, ok := l.records.Expense(id)
	if !ok {
		return fmt.Errorf("edit %d: %w", id, core.ErrExpenseNotFound)
	}
	l.expenseInput = fromExpense(e)
	l.mode = Editing{TargetID: id}
	return nil
}

// UpdateExpense commits the buffer onto the record under edit, keeping its id
// and position.
func (l *Ledger) UpdateExpense(ctx context.Context) (core.Expense, error) {
	id, ok := EditTarget(l.mode)
	if !ok {
		return core.Expense{}, core.ErrNotEditing
	}
	amount, category, date, err := l.expenseInput.parse()
	if err != nil {
		return core.Expense{}, err
	}
	e, ok := l.records.UpdateExpense(id, amount, category, date)
	if !ok {
		l.mode = Adding{}
		return core.Expense{}, fmt.Errorf("update %d: %w", id, core.ErrExpenseNotFound)
	}
	l.expenseInput = ExpenseInput{}
	l.mode = Adding{}

	l.logger.InfoContext(ctx, "Expense updated", log.NewFields().WithExpense(e).ToSlice()...)
	return e, l.commit(ctx, core.Expenses, core.OpUpdate, e.ID)
}

// Submit is the single form action: it updates while editing and adds otherwise.
func (l *Ledger) Submit(ctx context.Context) (core.Expense, error) {
	if _, editing := EditTarget(l.mode); editing {
		return l.UpdateExpense(ctx)
	}
	return l.AddExpense(ctx)
}

// CancelEdit drops the edit session and its buffer. It is a no-op when adding.
func (l *Ledger) CancelEdit() {
	if _, editing := EditTarget(l.mode); !editing {
		return
	}
	l.expenseInput = ExpenseInput{}
	l.mode = Adding{}
}

// DeleteExpense removes the record. Unknown ids report false with no error.
func (l *Ledger) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	if !l.records.DeleteExpense(id) {
		return false, nil
	}
	if target, editing := EditTarget(l.mode); editing && target == id {
		l.expenseInput = ExpenseInput{}
		l.mode = Adding{}
	}

	l.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldRecordID, id)
	return true, l.commit(ctx, core.Expenses, core.OpDelete, id)
}

func (l *Ledger) Expenses() []core.Expense { return l.records.Expenses() }
func (l *Ledger) Incomes() []core.Income   { return l.records.Incomes() }

// FilteredExpenses is the visible list under the active filter.
func (l *Ledger) FilteredExpenses() []core.Expense {
	return FilterExpenses(l.records.Expenses(), l.filter)
}

// Categories lists the distinct expense categories available as filter choices.
func (l *Ledger) Categories() []string { return Categories(l.records.Expenses()) }

// CategoryTotals always covers every expense, regardless of the filter.
func (l *Ledger) CategoryTotals() []core.CategoryTotal {
	return CategoryTotals(l.records.Expenses())
}

func (l *Ledger) TotalIncome() core.Money  { return TotalIncome(l.records.Incomes()) }
func (l *Ledger) TotalExpense() core.Money { return TotalExpense(l.records.Expenses()) }
func (l *Ledger) Balance() core.Money      { return Balance(l.records.Incomes(), l.records.Expenses()) }

func (l *Ledger) Summary() core.Summary {
	return Summarize(l.records.Expenses(), l.records.Incomes())
}

func (l *Ledger) ChartData() chart.Data {
	return chart.FromTotals(l.CategoryTotals())
}

// ExportDocument writes the filtered expenses through the document writer.
func (l *Ledger) ExportDocument(ctx context.Context) (export.Result, error) {
	if l.document == nil {
		return export.Result{}, export.ErrNoWriter
	}
	return l.export(ctx, "document", func(rows []core.Expense) (export.Result, error) {
		return l.document.WriteDocument(ctx, rows)
	})
}

// ExportSpreadsheet writes the filtered expenses through the spreadsheet writer.
func (l *Ledger) ExportSpreadsheet(ctx context.Context) (export.Result, error) {
	if l.sheet == nil {
		return export.Result{}, export.ErrNoWriter
	}
	return l.export(ctx, "spreadsheet", func(rows []core.Expense) (export.Result, error) {
		return l.sheet.WriteSpreadsheet(ctx, rows)
	})
}

func (l *Ledger) export(ctx context.Context, kind string, write func([]core.Expense) (export.Result, error)) (export.Result, error) {
	rows := l.FilteredExpenses()
	res, err := write(rows)
	if err != nil {
		l.logger.ErrorContext(ctx, "Export failed",
			log.FieldOperation, log.OpExport, "kind", kind, log.FieldError, err)
		return export.Result{}, fmt.Errorf("export %s: %w", kind, err)
	}
	l.logger.InfoContext(ctx, "Export written",
		log.FieldOperation, log.OpExport,
		"kind", kind,
		log.FieldRows, res.Rows,
		log.FieldDestination, res.Location)
	return res, nil
}

// commit persists both collections and then announces the change. The
// in-memory mutation stands even when the save fails.
func (l *Ledger) commit(ctx context.Context, coll core.Collection, op core.ChangeOp, id int64) error {
	l.revision++
	saveErr := l.persist(ctx)

	change := core.Change{Collection: coll, Op: op, RecordID: id, Revision: l.revision, At: l.now().UTC()}
	if l.notifier != nil {
		nctx := ctx
		if l.notifyTimeout > 0 {
			var cancel context.CancelFunc
			nctx, cancel = context.WithTimeout(ctx, l.notifyTimeout)
			defer cancel()
		}
		if err := l.notifier.NotifyChange(nctx, change); err != nil {
			l.logger.WarnContext(ctx, "Failed to publish ledger change",
				log.NewFields().WithChange(change).WithError(err).ToSlice()...)
		}
	}
	return saveErr
}

func (l *Ledger) persist(ctx context.Context) error {
	expenses, err := EncodeExpenses(l.records.Expenses())
	if err != nil {
		return err
	}
	incomes, err := EncodeIncomes(l.records.Incomes())
	if err != nil {
		return err
	}
	err = storage.SaveAll(ctx, l.store, []storage.Entry{
		{Key: ExpensesKey, Value: expenses},
		{Key: IncomesKey, Value: incomes},
	})
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// IsValidationError reports whether err came from rejected input rather
// than from I/O.
func IsValidationError(err error) bool {
	return errors.Is(err, core.ErrMissingField) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyCategory)
}

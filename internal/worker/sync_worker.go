// Package worker mirrors the persisted ledger into an external spreadsheet.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// ChangeSource delivers ledger change messages until ctx is done.
type ChangeSource interface {
	ConsumeLedgerChanged(ctx context.Context, handler func(context.Context, *amqp.LedgerChangedMessage) error) error
}

var _ ChangeSource = (*amqp.Client)(nil)

// SyncWorker rewrites the spreadsheet from storage whenever the ledger
// changes and on a fixed resync interval. Every sync is a full rewrite of
// the unfiltered expense list, so duplicate or reordered messages are harmless.
type SyncWorker struct {
	store    storage.Store
	target   export.SpreadsheetWriter
	source   ChangeSource
	interval time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	syncs int
}

func NewSyncWorker(store storage.Store, target export.SpreadsheetWriter, source ChangeSource, interval time.Duration, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		store:    store,
		target:   target,
		source:   source,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerChanged processes one change message.
func (w *SyncWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.NewFields().WithChange(msg.Change()).ToSlice()...)
	return w.SyncAll(ctx)
}

// SyncAll reads the stored expenses and rewrites the spreadsheet. Read or
// decode errors are returned and the spreadsheet is left untouched.
func (w *SyncWorker) SyncAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A failed read must not reach the target: writing an empty list would
	// wipe the mirrored sheet.
	expenses, err := ledger.LoadExpenses(ctx, w.store)
	if err != nil {
		w.logger.ErrorContext(ctx, "Sync skipped, ledger unreadable", log.FieldOperation, log.OpSync, log.FieldError, err)
		return fmt.Errorf("sync spreadsheet: %w", err)
	}
	res, err := w.target.WriteSpreadsheet(ctx, expenses)
	if err != nil {
		w.logger.ErrorContext(ctx, "Sync failed", log.FieldOperation, log.OpSync, log.FieldError, err)
		return fmt.Errorf("sync spreadsheet: %w", err)
	}
	w.syncs++
	w.logger.InfoContext(ctx, "Sync complete",
		log.FieldOperation, log.OpSync,
		log.FieldRows, res.Rows,
		log.FieldDestination, res.Location)
	return nil
}

// Syncs reports how many syncs succeeded.
func (w *SyncWorker) Syncs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncs
}

// Run performs an initial sync, then consumes change messages and resyncs
// on every tick until ctx is cancelled. It returns nil on cancellation.
func (w *SyncWorker) Run(ctx context.Context) error {
	if err := w.SyncAll(ctx); err != nil {
		w.logger.WarnContext(ctx, "Initial sync failed, will retry on next change or tick", log.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if w.source != nil {
		g.Go(func() error {
			return w.source.ConsumeLedgerChanged(ctx, w.HandleLedgerChanged)
		})
	}
	if w.interval > 0 {
		g.Go(func() error {
			return w.tick(ctx)
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Sync worker stopped", log.FieldOperation, log.OpShutdown)
		return nil
	}
	return err
}

func (w *SyncWorker) tick(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncAll(ctx); err != nil {
				w.logger.WarnContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}

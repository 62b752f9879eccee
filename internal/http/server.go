// Package http serves the ledger as a local JSON API.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/cache"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/services"
)

const (
	cacheSize = 16
	cacheTTL  = 10 * time.Minute
)

type Server struct {
	http.Server
	svc    *services.LedgerService
	logger *log.Logger
	trace  *trace.Middleware

	// derived views keyed by ledger revision; a write bumps the revision so
	// stale entries are never hit, they just age out
	summaryCache *cache.LRU[core.Summary]
	chartCache   *cache.LRU[[]byte]
	caches       *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(addr string, svc *services.LedgerService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:          svc,
		logger:       logger,
		trace:        trace.NewMiddleware(logger),
		summaryCache: cache.NewLRU[core.Summary](cacheSize, cacheTTL),
		chartCache:   cache.NewLRU[[]byte](cacheSize, cacheTTL),
		caches:       cache.NewManager(logger),
	}
	s.caches.Register(s.summaryCache)
	s.caches.Register(s.chartCache)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/expenses/{id}/edit", s.handleEditExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("PUT /api/expenses/input", s.handleSetExpenseInput)
	mux.HandleFunc("POST /api/expenses/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/expenses/cancel", s.handleCancelEdit)

	mux.HandleFunc("GET /api/incomes", s.handleListIncomes)
	mux.HandleFunc("POST /api/incomes", s.handleCreateIncome)

	mux.HandleFunc("GET /api/filter", s.handleGetFilter)
	mux.HandleFunc("PUT /api/filter", s.handleSetFilter)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/export/{format}", s.handleDownload)
	mux.HandleFunc("POST /api/export/{format}", s.handleExport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Addr = addr
	s.Handler = s.trace.Middleware(headers.Middleware(security.NoStore(mux)))
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.caches.Start(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "HTTP server listening", "addr", s.Addr, log.FieldOperation, log.OpStartup)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.caches.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and the cache sweeper. Safe to call twice.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
		s.logger.InfoContext(ctx, "HTTP server stopped", log.FieldOperation, log.OpShutdown)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type readiness struct {
	Status   string        `json:"status"`
	Revision uint64        `json:"revision"`
	Requests trace.Metrics `json:"requests"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, readiness{
		Status:   "ready",
		Revision: s.svc.Revision(),
		Requests: s.trace.GetMetrics(),
	})
}

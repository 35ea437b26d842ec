// Package http exposes the JSON API over the ledger, category and recurring
// services. Handlers parse and scope the request, delegate to a service and
// shape the envelope; all computation happens in internal/report.
package http

import (
	"net/http"
	"time"

	"finctl/internal/cache"
	"finctl/internal/middleware/trace"
	"finctl/internal/report"
	"finctl/internal/services"
)

const (
	summaryCacheSize = 256
	summaryCacheTTL  = 30 * time.Second
)

type Server struct {
	categories *services.CategoryService
	ledger     *services.LedgerService
	recurring  *services.RecurringService

	// summaryCache fronts the all-time overview; entries are dropped on
	// every ledger mutation for the user.
	summaryCache *cache.LRUCache[report.Summary]
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The summary cache is registered with cacheManager (if any)
// for periodic cleanup.
func NewServer(addr string, categories *services.CategoryService, ledger *services.LedgerService, recurring *services.RecurringService, cacheManager *cache.Manager) *http.Server {
	s := &Server{
		categories:   categories,
		ledger:       ledger,
		recurring:    recurring,
		summaryCache: cache.NewLRUCache[report.Summary](summaryCacheSize, summaryCacheTTL),
	}
	if cacheManager != nil {
		cacheManager.Register(s.summaryCache)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleHealth)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/type/{type}", s.handleListCategoriesByType)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/summary/overview", s.handleSummaryOverview)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("GET /api/recurring/stats", s.handleRecurringStats)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("PUT /api/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("POST /api/recurring/{id}/deactivate", s.handleDeactivateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)

	traced := trace.NewMiddleware(clientIP)

	return &http.Server{
		Addr:    addr,
		Handler: traced.Middleware(mux),
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

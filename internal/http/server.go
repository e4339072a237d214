// Package http provides the JSON API for contracts, receipts, amount
// previews, and the manual recurrence trigger.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"recibos/internal/cache"
	"recibos/internal/core"
	"recibos/internal/log"
	"recibos/internal/services"
	"recibos/internal/storage"
)

type Server struct {
	http.Server

	storage   *storage.SQLiteRepository
	receipts  *services.ReceiptService
	processor *services.RecurringProcessor
	logger    *log.Logger

	// Month listings are the hot read path; poll-heavy clients hit the
	// cache instead of SQLite.
	receiptsCache    *cache.LRUCache[[]core.Receipt]
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

func NewServer(addr string, repo *storage.SQLiteRepository, receipts *services.ReceiptService, processor *services.RecurringProcessor) *Server {
	mux := http.NewServeMux()
	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)

	s := &Server{
		storage:          repo,
		receipts:         receipts,
		processor:        processor,
		logger:           logger,
		receiptsCache:    cache.NewLRUCache[[]core.Receipt](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/contracts", s.withRequestLog(s.handleContracts))
	mux.HandleFunc("/api/receipts", s.withRequestLog(s.handleReceipts))
	mux.HandleFunc("/api/preview/amount", s.withRequestLog(s.handleAmountPreview))
	mux.HandleFunc("/api/recurrence/run", s.withRequestLog(s.handleRecurrenceRun))

	// Attach the request-scoped logger before routing so handlers can pull
	// it from the context with the request ID already bound.
	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(requestID)(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go s.startCacheCleanup()

	return s
}

// startCacheCleanup periodically drops expired month listings.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.receiptsCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutine before shutting down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
	})
	return s.Server.Shutdown(ctx)
}

// requestID honors an inbound X-Request-ID so traces span callers, and mints
// one otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return generateRequestID()
}

// withRequestLog adds request logging and basic hardening headers.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		log.FromContext(r.Context()).InfoContext(r.Context(), "Request handled",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.storage.ListContracts(r.Context()); err != nil {
		http.Error(w, "storage not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Package http serves the tracker web UI: entry forms, transaction listings,
// CSV downloads, analytics and a small JSON API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/reporting"
	"tracker/internal/services"
	"tracker/internal/storage"
	appweb "tracker/web"
)

const (
	readTimeout  = 7 * time.Second
	writeTimeout = 30 * time.Second
	maxBodyBytes = 1 << 20
)

// Options wires a Server to its collaborators.
type Options struct {
	Addr           string
	Store          storage.Gateway
	Ledger         *services.LedgerService
	CurrencySymbol string
	CORSOrigins    []string
	Logger         *applog.Logger

	// PostLimit is the number of form submissions a client may make per
	// minute. Zero means 60.
	PostLimit int
}

type appMetrics struct {
	started         time.Time
	expensesCreated int64
	incomeCreated   int64
	weeklyCreated   int64
}

type Server struct {
	http.Server
	templates   *template.Template
	store       storage.Gateway
	ledger      *services.LedgerService
	loader      *reporting.Loader
	currency    string
	rateLimiter *rateLimiter
	security    securityMetrics
	metrics     appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(opts Options) *Server {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = core.DefaultCurrencySymbol
	}
	if opts.PostLimit <= 0 {
		opts.PostLimit = 60
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		store:       opts.Store,
		ledger:      opts.Ledger,
		loader:      reporting.NewLoader(opts.Store),
		currency:    opts.CurrencySymbol,
		rateLimiter: newRateLimiter(opts.PostLimit, time.Minute),
		metrics:     appMetrics{started: time.Now()},
	}

	// Parse embedded templates at startup.
	t, err := template.New("tracker").Funcs(templateFuncs(s.currency)).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		opts.Logger.Warn("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(applog.Middleware(opts.Logger))
	r.Use(applog.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	r.Use(applog.AccessLog(extractClientIP))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(DefaultHeadersConfig()))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		opts.Logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))
		r.Use(s.guard)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/expenses/new", http.StatusSeeOther)
		})
		r.Get("/expenses/new", s.handleExpensePage)
		r.Post("/expenses", s.handleCreateExpense)
		r.Post("/expenses/weekly", s.handleCreateWeekly)
		r.Get("/income/new", s.handleIncomePage)
		r.Post("/income", s.handleCreateIncome)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/transactions/expenses.csv", s.handleExpensesCSV)
		r.Get("/transactions/income.csv", s.handleIncomeCSV)
		r.Get("/analytics", s.handleAnalytics)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		api.Get("/summary", s.handleAPISummary)
	})

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.started).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.store.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics exposes counters in plain text.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "tracker_uptime_seconds %d\n", int64(time.Since(s.metrics.started).Seconds()))
	fmt.Fprintf(w, "tracker_expenses_created_total %d\n", atomic.LoadInt64(&s.metrics.expensesCreated))
	fmt.Fprintf(w, "tracker_income_created_total %d\n", atomic.LoadInt64(&s.metrics.incomeCreated))
	fmt.Fprintf(w, "tracker_weekly_submissions_total %d\n", atomic.LoadInt64(&s.metrics.weeklyCreated))
	fmt.Fprintf(w, "tracker_rate_limit_hits_total %d\n", atomic.LoadInt64(&s.security.rateLimitHits))
	fmt.Fprintf(w, "tracker_suspicious_requests_total %d\n", atomic.LoadInt64(&s.security.suspiciousRequests))
	fmt.Fprintf(w, "tracker_rate_limit_clients %d\n", s.rateLimiter.activeClients())
}

// render executes a named template, answering 500 when templates are missing
// or execution fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate)
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			"template", name)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/utsav-books/utsav-books/internal/auth"
	"github.com/utsav-books/utsav-books/internal/debit"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/observability"
	"github.com/utsav-books/utsav-books/internal/summary"
	"github.com/utsav-books/utsav-books/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Sessions       *auth.SessionManager
	AuthHandler    *auth.Handler
	LedgerHandler  *ledger.Handler
	DebitHandler   *debit.Handler
	SummaryHandler *summary.Handler
	JobsHandler    *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router. Reads are open; every mutating route
// sits behind the operator session guard.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		params.LedgerHandler.MountPublicRoutes(r)
		params.DebitHandler.MountPublicRoutes(r)
		params.SummaryHandler.MountPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(params.Sessions.Require)
			params.LedgerHandler.MountOperatorRoutes(r)
			params.DebitHandler.MountOperatorRoutes(r)
		})
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

// Package httptransport is the thin HTTP layer: route wiring and handlers
// that delegate to domain services. Business rules stay in the services;
// request defense stays in the validation pipeline.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"euromillones/internal/auth"
	"euromillones/internal/combinations"
	"euromillones/internal/platform/database"
	"euromillones/internal/platform/metrics"
	"euromillones/internal/platform/middleware"
	"euromillones/internal/results"
	"euromillones/internal/transport/httputil"
	"euromillones/internal/users"
	"euromillones/internal/validation"
)

// Handler holds the services the routes delegate to.
type Handler struct {
	users        *users.Service
	combinations *combinations.Service
	results      *results.Service
	sanitizer    *validation.Sanitizer
	pool         *database.Pool
	logger       *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(
	userService *users.Service,
	combinationService *combinations.Service,
	resultService *results.Service,
	sanitizer *validation.Sanitizer,
	pool *database.Pool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:        userService,
		combinations: combinationService,
		results:      resultService,
		sanitizer:    sanitizer,
		pool:         pool,
		logger:       logger,
	}
}

// RouterConfig carries the wiring for NewRouter.
type RouterConfig struct {
	Handler        *Handler
	Pipeline       *validation.Pipeline
	Gate           *auth.Gate
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	TrustedProxies []netip.Prefix
}

// NewRouter wires every endpoint with its middleware chain. The metrics
// endpoint sits outside the defense pipeline; everything else passes the
// screen, and mutating or per-user routes additionally pass the auth gate.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.NewMetadata(cfg.TrustedProxies).Handler)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Latency(cfg.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	r.Handle("/metrics", promhttp.Handler())

	none := validation.Schema{}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Pipeline.Screen)

		r.With(cfg.Pipeline.Inspect(none)).Get("/", h.handleIndex)
		r.With(cfg.Pipeline.Inspect(none)).Get("/health", h.handleHealth)
		r.With(cfg.Pipeline.Inspect(none)).Get("/results/{date}", h.handleGetResult)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Gate.Require)

			userSchema := validation.Schema{
				Required: []string{"email"},
				Types:    map[string]validation.FieldType{"email": validation.TypeEmail},
			}
			r.With(cfg.Pipeline.Inspect(userSchema)).Post("/user", h.handleCreateUser)
			r.With(cfg.Pipeline.Inspect(userSchema)).Put("/user/{email}", h.handleUpdateUser)
			r.With(cfg.Pipeline.Inspect(none)).Get("/user/{email}", h.handleGetUser)
			r.With(cfg.Pipeline.Inspect(none)).Delete("/user/{email}", h.handleDeleteUser)

			combinationSchema := validation.Schema{
				Required: []string{"email", "balls", "stars"},
				Types: map[string]validation.FieldType{
					"email": validation.TypeEmail,
					"balls": validation.TypeArrayOfIntegers,
					"stars": validation.TypeArrayOfIntegers,
				},
			}
			updateSchema := validation.Schema{
				Required: []string{"balls", "stars"},
				Types: map[string]validation.FieldType{
					"balls": validation.TypeArrayOfIntegers,
					"stars": validation.TypeArrayOfIntegers,
				},
			}
			r.With(cfg.Pipeline.Inspect(combinationSchema)).Post("/combinations", h.handleCreateCombination)
			r.With(cfg.Pipeline.Inspect(none)).Get("/combinations/{email}", h.handleListCombinations)
			r.With(cfg.Pipeline.Inspect(updateSchema)).Put("/combinations/{id}", h.handleUpdateCombination)
			r.With(cfg.Pipeline.Inspect(none)).Delete("/combinations/{id}", h.handleDeleteCombination)

			resultSchema := validation.Schema{
				Required: []string{"date", "balls", "stars"},
				Types: map[string]validation.FieldType{
					"date":  validation.TypeString,
					"balls": validation.TypeArrayOfIntegers,
					"stars": validation.TypeArrayOfIntegers,
				},
			}
			r.With(cfg.Pipeline.Inspect(resultSchema)).Post("/results", h.handleRecordResult)
		})
	})

	return r
}

package auth

import (
	"context"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"euromillones/internal/platform/database"
)

type identityKey struct{}

// Gate is the middleware protecting mutating and per-user routes. It
// authenticates the request, leases a dedicated database connection, binds
// the security context on it, and guarantees the unbind on every exit path.
type Gate struct {
	verifier *Verifier
	binder   *Binder
	pool     *database.Pool
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewGate constructs a Gate. A nil pool skips connection leasing, for
// memory-backed deployments and tests.
func NewGate(verifier *Verifier, binder *Binder, pool *database.Pool, logger *slog.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		binder:   binder,
		pool:     pool,
		logger:   logger,
		tracer:   otel.Tracer("euromillones/auth"),
	}
}

// Require rejects unauthenticated requests with 401 before any payload
// inspection or handler work runs.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := g.tracer.Start(r.Context(), "auth.gate")
		defer span.End()

		identity, err := g.verifier.Authenticate(ctx, r.Header.Get("Authorization"))
		if err != nil {
			g.unauthorized(w)
			return
		}
		ctx = context.WithValue(ctx, identityKey{}, identity)

		if g.pool != nil {
			conn, err := g.pool.Lease(ctx)
			if err != nil {
				g.logger.ErrorContext(ctx, "connection lease failed", "error", err)
				g.serverError(w)
				return
			}
			defer func() {
				// The client may already be gone; the unbind must
				// still run before the connection is reused.
				cleanup := context.WithoutCancel(ctx)
				if err := g.binder.Unbind(cleanup, conn); err != nil {
					g.logger.ErrorContext(cleanup, "security context unbind failed", "error", err)
				}
				if err := conn.Close(); err != nil {
					g.logger.ErrorContext(cleanup, "connection release failed", "error", err)
				}
			}()

			if err := g.binder.Bind(ctx, conn, identity); err != nil {
				g.logger.ErrorContext(ctx, "security context bind failed", "error", err)
				g.serverError(w)
				return
			}
			ctx = database.WithSession(ctx, conn)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFrom returns the authenticated identity placed in the context by
// Require.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok
}

func (g *Gate) unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Basic realm="euromillones"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}

func (g *Gate) serverError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
}

package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/mssola/useragent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"euromillones/internal/platform/metrics"
	"euromillones/internal/platform/middleware"
	"euromillones/internal/ratelimit"
)

// MaxUserAgentLength is the advisory ceiling on the User-Agent header.
// Longer values are logged as suspicious but never block the request.
const MaxUserAgentLength = 1000

// DefaultMaxPayloadBytes caps request bodies at 1 MiB.
const DefaultMaxPayloadBytes int64 = 1 << 20

type payloadKey struct{}
type paramsKey struct{}

// Pipeline screens every inbound request before any handler or credential
// check runs. Stage order is fixed and the first failure wins: rate limit,
// header sanity, content type, payload size, then per-route body or parameter
// inspection.
type Pipeline struct {
	limiter         *ratelimit.Limiter
	sanitizer       *Sanitizer
	logger          *slog.Logger
	metrics         *metrics.Metrics
	maxPayloadBytes int64
	tracer          trace.Tracer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxPayloadBytes overrides the body size ceiling.
func WithMaxPayloadBytes(n int64) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPayloadBytes = n
		}
	}
}

// WithMetrics attaches metrics reporting.
func WithMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline assembles the defense pipeline around a limiter and sanitizer.
func NewPipeline(limiter *ratelimit.Limiter, sanitizer *Sanitizer, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		limiter:         limiter,
		sanitizer:       sanitizer,
		logger:          logger,
		maxPayloadBytes: DefaultMaxPayloadBytes,
		tracer:          otel.Tracer("euromillones/validation"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Screen is the global middleware covering the stages every route shares.
func (p *Pipeline) Screen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := p.tracer.Start(r.Context(), "pipeline.screen",
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
			),
		)
		r = r.WithContext(ctx)

		if rej := p.screenRateLimit(w, r); rej != nil {
			span.SetAttributes(attribute.String("pipeline.rejected", rej.Field))
			span.End()
			p.reject(w, r, rej)
			return
		}

		p.screenHeaders(r)

		if rej := p.screenContentType(r); rej != nil {
			span.SetAttributes(attribute.String("pipeline.rejected", rej.Field))
			span.End()
			p.reject(w, r, rej)
			return
		}

		if rej := p.screenPayloadSize(r); rej != nil {
			span.SetAttributes(attribute.String("pipeline.rejected", rej.Field))
			span.End()
			p.reject(w, r, rej)
			return
		}
		// Belt and braces under the declared-length check: a lying
		// Content-Length still cannot stream past the ceiling.
		r.Body = http.MaxBytesReader(w, r.Body, p.maxPayloadBytes)

		span.End()
		p.metrics.Admitted()
		next.ServeHTTP(w, r)
	})
}

// Inspect is the per-route middleware for the terminal stage. Body-bearing
// methods get the parse/required/types sequence against the route's schema;
// read-only methods get their query and path parameters sanitized.
func (p *Pipeline) Inspect(schema Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := p.tracer.Start(r.Context(), "pipeline.inspect")
			defer span.End()

			if hasBody(r.Method) {
				payload, rej := p.inspectBody(r, schema)
				if rej != nil {
					span.SetAttributes(attribute.String("pipeline.rejected", rej.Field))
					p.reject(w, r, rej)
					return
				}
				ctx = context.WithValue(ctx, payloadKey{}, payload)
			} else {
				ctx = context.WithValue(ctx, paramsKey{}, p.sanitizeParams(r))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PayloadFrom returns the vetted payload placed in the context by Inspect.
func PayloadFrom(ctx context.Context) (map[string]any, bool) {
	payload, ok := ctx.Value(payloadKey{}).(map[string]any)
	return payload, ok
}

// ParamsFrom returns the sanitized parameters placed in the context by
// Inspect on read-only routes.
func ParamsFrom(ctx context.Context) (map[string]string, bool) {
	params, ok := ctx.Value(paramsKey{}).(map[string]string)
	return params, ok
}

func (p *Pipeline) screenRateLimit(w http.ResponseWriter, r *http.Request) *Rejection {
	clientIP := middleware.GetClientIP(r.Context())
	decision := p.limiter.Admit(clientIP)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

	if decision.Allowed {
		return nil
	}
	w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
	policy := p.limiter.Policy()
	return NewRejection(
		"Rate limit exceeded",
		StageRateLimit,
		fmt.Sprintf("Maximum %d requests per %d seconds", policy.MaxRequests, int(policy.Window.Seconds())),
	)
}

// screenHeaders is advisory only: anomalies are logged, never blocked, since
// legitimate clients occasionally omit or mangle the User-Agent.
func (p *Pipeline) screenHeaders(r *http.Request) {
	ua := r.Header.Get("User-Agent")
	switch {
	case strings.TrimSpace(ua) == "":
		p.logger.WarnContext(r.Context(), "missing user-agent header",
			"path", r.URL.Path,
		)
	case len(ua) > MaxUserAgentLength:
		p.logger.WarnContext(r.Context(), "suspiciously long user-agent header",
			"path", r.URL.Path,
			"length", len(ua),
		)
	default:
		parsed := useragent.New(ua)
		if parsed.Bot() {
			name, version := parsed.Browser()
			p.logger.InfoContext(r.Context(), "bot user-agent",
				"path", r.URL.Path,
				"browser", name,
				"version", version,
			)
		}
	}
}

func (p *Pipeline) screenContentType(r *http.Request) *Rejection {
	if !hasBody(r.Method) {
		return nil
	}
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		return nil
	}
	return NewRejection(
		"Invalid Content-Type",
		StageContentType,
		fmt.Sprintf("Expected 'application/json', got '%s'", contentType),
	)
}

func (p *Pipeline) screenPayloadSize(r *http.Request) *Rejection {
	if !hasBody(r.Method) {
		return nil
	}
	if raw := r.Header.Get("Content-Length"); raw != "" && r.ContentLength < 0 {
		// Unparseable declared length: the hard cap on the body still
		// applies, so this is log-only.
		p.logger.WarnContext(r.Context(), "malformed content-length header",
			"path", r.URL.Path,
			"content_length", raw,
		)
		return nil
	}
	if r.ContentLength > p.maxPayloadBytes {
		return NewRejection(
			"Payload too large",
			StagePayloadSize,
			fmt.Sprintf("Maximum allowed size is %d bytes", p.maxPayloadBytes),
		)
	}
	return nil
}

func (p *Pipeline) inspectBody(r *http.Request, schema Schema) (map[string]any, *Rejection) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, NewRejection(
				"Payload too large",
				StagePayloadSize,
				fmt.Sprintf("Maximum allowed size is %d bytes", p.maxPayloadBytes),
			)
		}
		return nil, NewRejection("Invalid JSON format", StageJSONParse, "request body unreadable")
	}

	payload, rej := ParseBody(body)
	if rej != nil {
		return nil, rej
	}
	if len(schema.Required) > 0 {
		if rej := RequiredFields(payload, schema.Required); rej != nil {
			return nil, rej
		}
	}
	if len(schema.Types) > 0 {
		if rej := DataTypes(payload, schema.Types); rej != nil {
			return nil, rej
		}
	}
	return p.sanitizer.Map(payload), nil
}

func (p *Pipeline) sanitizeParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		params[key] = p.sanitizer.Param(key, values[0])
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			params[key] = p.sanitizer.Param(key, rctx.URLParams.Values[i])
		}
	}
	return params
}

func (p *Pipeline) reject(w http.ResponseWriter, r *http.Request, rej *Rejection) {
	p.metrics.RejectStage(rej.Field)
	p.logger.WarnContext(r.Context(), "request rejected",
		"stage", rej.Field,
		"path", r.URL.Path,
		"method", r.Method,
		"details", rej.Details,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rej.Status())
	if err := json.NewEncoder(w).Encode(rej); err != nil {
		p.logger.ErrorContext(r.Context(), "rejection encode failed", "error", err)
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

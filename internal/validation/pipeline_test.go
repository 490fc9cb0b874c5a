package validation

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euromillones/internal/ratelimit"
)

func newTestPipeline(t *testing.T, maxRequests int, opts ...PipelineOption) *Pipeline {
	t.Helper()
	limiter := ratelimit.New(ratelimit.Config{MaxRequests: maxRequests, Window: time.Minute})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPipeline(limiter, NewSanitizer(logger), logger, opts...)
}

func decodeRejection(t *testing.T, rec *httptest.ResponseRecorder) Rejection {
	t.Helper()
	var rej Rejection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rej))
	return rej
}

func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func TestScreenAdmitsWithinLimit(t *testing.T) {
	p := newTestPipeline(t, 100)
	handler := p.Screen(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/results/2024-03-15", nil)
	req.Header.Set("User-Agent", "test-client/1.0")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestScreenRejectsOverLimit(t *testing.T) {
	p := newTestPipeline(t, 2)
	handler := p.Screen(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	rej := decodeRejection(t, rec)
	assert.Equal(t, "Rate limit exceeded", rej.Message)
	assert.Equal(t, StageRateLimit, rej.Field)
	assert.Equal(t, "Maximum 2 requests per 60 seconds", rej.Details)
}

func TestScreenRejectsWrongContentType(t *testing.T) {
	p := newTestPipeline(t, 100)
	handler := p.Screen(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rej := decodeRejection(t, rec)
	assert.Equal(t, "Invalid Content-Type", rej.Message)
	assert.Equal(t, StageContentType, rej.Field)
	assert.Equal(t, "Expected 'application/json', got 'text/plain'", rej.Details)
}

func TestScreenContentTypeNotRequiredForReads(t *testing.T) {
	p := newTestPipeline(t, 100)
	handler := p.Screen(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/user/a@b.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScreenRejectsDeclaredOversizedPayload(t *testing.T) {
	p := newTestPipeline(t, 100, WithMaxPayloadBytes(16))
	handler := p.Screen(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(strings.Repeat("x", 32)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	rej := decodeRejection(t, rec)
	assert.Equal(t, "Payload too large", rej.Message)
	assert.Equal(t, StagePayloadSize, rej.Field)
	assert.Equal(t, "Maximum allowed size is 16 bytes", rej.Details)
}

func TestInspectCapsUndeclaredBody(t *testing.T) {
	p := newTestPipeline(t, 100, WithMaxPayloadBytes(16))
	r := chi.NewRouter()
	r.Use(p.Screen)
	r.With(p.Inspect(Schema{})).Post("/user", okHandler())

	// MultiReader hides the length so only the hard cap can stop it.
	body := io.MultiReader(strings.NewReader(strings.Repeat("x", 64)))
	req := httptest.NewRequest(http.MethodPost, "/user", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, StagePayloadSize, decodeRejection(t, rec).Field)
}

func TestInspectDeliversVettedPayload(t *testing.T) {
	p := newTestPipeline(t, 100)
	schema := Schema{
		Required: []string{"email", "nickname"},
		Types:    map[string]FieldType{"email": TypeEmail, "nickname": TypeString},
	}

	var got map[string]any
	r := chi.NewRouter()
	r.Use(p.Screen)
	r.With(p.Inspect(schema)).Post("/user", func(w http.ResponseWriter, req *http.Request) {
		payload, ok := PayloadFrom(req.Context())
		require.True(t, ok)
		got = payload
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/user",
		strings.NewReader(`{"email":"a@b.com","nickname":"  alice<x>  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a@b.com", got["email"])
	assert.Equal(t, "alicex", got["nickname"])
}

func TestInspectRejectsMissingFields(t *testing.T) {
	p := newTestPipeline(t, 100)
	schema := Schema{Required: []string{"email", "balls", "stars"}}

	r := chi.NewRouter()
	r.Use(p.Screen)
	r.With(p.Inspect(schema)).Post("/combinations", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/combinations",
		strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rej := decodeRejection(t, rec)
	assert.Equal(t, "Missing required fields", rej.Message)
	assert.Equal(t, []string{"balls", "stars"}, rej.MissingFields)
}

func TestInspectRejectsMalformedJSON(t *testing.T) {
	p := newTestPipeline(t, 100)
	r := chi.NewRouter()
	r.Use(p.Screen)
	r.With(p.Inspect(Schema{})).Post("/user", okHandler())

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"email": `))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, StageJSONParse, decodeRejection(t, rec).Field)
}

func TestInspectSanitizesReadParams(t *testing.T) {
	p := newTestPipeline(t, 100)

	var got map[string]string
	r := chi.NewRouter()
	r.Use(p.Screen)
	r.With(p.Inspect(Schema{})).Get("/user/{email}", func(w http.ResponseWriter, req *http.Request) {
		params, ok := ParamsFrom(req.Context())
		require.True(t, ok)
		got = params
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/user/%3Cb%3Ea@b.com?verbose=%22yes%22", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ba@b.com", got["email"])
	assert.Equal(t, "yes", got["verbose"])
}

func TestScreenMissingUserAgentDoesNotBlock(t *testing.T) {
	p := newTestPipeline(t, 100)
	handler := p.Screen(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package auth

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"euromillones/internal/platform/metrics"
	domainerrors "euromillones/pkg/domain-errors"
)

// ErrUnauthenticated is the single outward failure for every authentication
// problem. The cause is logged, never surfaced, so callers cannot distinguish
// an unknown nickname from a wrong password.
var ErrUnauthenticated = domainerrors.New(domainerrors.CodeUnauthorized, "authentication required")

// Verifier authenticates HTTP Basic credentials against a CredentialStore.
type Verifier struct {
	store   CredentialStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithMetrics attaches auth outcome counters.
func WithMetrics(m *metrics.Metrics) VerifierOption {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// NewVerifier constructs a Verifier.
func NewVerifier(store CredentialStore, logger *slog.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{store: store, logger: logger}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Authenticate proves an Authorization header. Every failure path — wrong
// scheme, broken base64, missing halves, unknown nickname, wrong password,
// store error — fails closed with ErrUnauthenticated.
func (v *Verifier) Authenticate(ctx context.Context, authorization string) (*Identity, error) {
	encoded, ok := strings.CutPrefix(authorization, "Basic ")
	if !ok {
		return nil, v.fail(ctx, "missing or non-basic authorization header")
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, v.fail(ctx, "authorization header base64 decode failed")
	}

	nickname, password, found := strings.Cut(string(decoded), ":")
	if !found || nickname == "" || password == "" {
		return nil, v.fail(ctx, "malformed basic credentials")
	}

	v.logger.DebugContext(ctx, "authentication attempt", "nickname", nickname)

	credential, err := v.store.ByNickname(ctx, nickname)
	if err != nil {
		v.logger.ErrorContext(ctx, "credential lookup failed", "error", err)
		v.metrics.AuthFailure()
		return nil, ErrUnauthenticated
	}
	if credential == nil {
		return nil, v.fail(ctx, "unknown nickname")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return nil, v.fail(ctx, "password mismatch")
	}

	v.metrics.AuthSuccess()
	v.logger.InfoContext(ctx, "authentication successful", "nickname", nickname)
	return &Identity{CredentialID: credential.ID, Nickname: credential.Nickname}, nil
}

func (v *Verifier) fail(ctx context.Context, reason string) error {
	v.metrics.AuthFailure()
	v.logger.WarnContext(ctx, "authentication failed", "reason", reason)
	return ErrUnauthenticated
}

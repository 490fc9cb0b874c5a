package auth

import (
	"context"
	"database/sql"
	"fmt"
)

// Session is the slice of a database connection the binder needs.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Binder sets and clears the `app.authenticated_user` session variable that
// row-level security policies read. It must run on a dedicated per-request
// connection: pooled connections shared across requests would leak identity.
type Binder struct{}

// NewBinder constructs a Binder.
func NewBinder() *Binder {
	return &Binder{}
}

// Bind attaches the identity to the session. set_config with is_local=false
// scopes the value to the session, matching the explicit Unbind on release.
func (b *Binder) Bind(ctx context.Context, session Session, identity *Identity) error {
	if identity == nil {
		return fmt.Errorf("identity is required")
	}
	if _, err := session.ExecContext(ctx,
		`SELECT set_config('app.authenticated_user', $1, false)`,
		identity.Nickname,
	); err != nil {
		return fmt.Errorf("bind security context: %w", err)
	}
	return nil
}

// Unbind clears the session variable before the connection returns to the
// pool.
func (b *Binder) Unbind(ctx context.Context, session Session) error {
	if _, err := session.ExecContext(ctx, `RESET app.authenticated_user`); err != nil {
		return fmt.Errorf("unbind security context: %w", err)
	}
	return nil
}

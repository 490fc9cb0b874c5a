package database

import (
	"context"
	"database/sql"
)

// DBTX is the query surface shared by *sql.DB, *sql.Conn, and *sql.Tx.
// Stores run against it so a request-scoped session can be substituted for
// the shared pool transparently.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sessionKey struct{}

// WithSession stashes a leased connection in the context. Queries issued
// through Querier for the rest of the request run on that connection, so the
// security context bound to it applies to them.
func WithSession(ctx context.Context, conn *sql.Conn) context.Context {
	return context.WithValue(ctx, sessionKey{}, conn)
}

// SessionFrom returns the request-scoped connection, if one was leased.
func SessionFrom(ctx context.Context) (*sql.Conn, bool) {
	conn, ok := ctx.Value(sessionKey{}).(*sql.Conn)
	return conn, ok
}

// Querier returns the request-scoped session when present, the shared pool
// otherwise.
func (p *Pool) Querier(ctx context.Context) DBTX {
	if conn, ok := SessionFrom(ctx); ok {
		return conn
	}
	return p.db
}

// Package auth implements HTTP Basic credential verification and the
// per-request database security context used by row-level security.
package auth

// Credential is a stored login: a nickname and its bcrypt password hash.
type Credential struct {
	ID           int
	Nickname     string
	PasswordHash string
}

// Identity is the proven result of a successful authentication.
type Identity struct {
	CredentialID int
	Nickname     string
}

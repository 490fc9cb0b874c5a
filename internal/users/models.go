// Package users manages registered player accounts, keyed by email.
package users

// User is a registered player.
type User struct {
	ID    int
	Email string
}

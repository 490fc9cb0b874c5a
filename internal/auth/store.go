package auth

import "context"

// CredentialStore looks up stored credentials. ByNickname returns (nil, nil)
// when no credential exists; errors are reserved for infrastructure failures.
type CredentialStore interface {
	ByNickname(ctx context.Context, nickname string) (*Credential, error)
}

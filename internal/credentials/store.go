// Package credentials persists the username → password-digest mapping.
//
// The canonical implementation is the append-only ledger file (users.txt).
// The Store interface exists so the linear-scan ledger can be swapped for an
// indexed backend (see the postgres subpackage) without touching the auth
// service.
package credentials

import "context"

// Record is one persisted credential: a username and the stored password
// digest. The digest is opaque to this package; its shape depends on the
// configured hasher.
type Record struct {
	Username string
	Digest   string
}

// Store is the durable credential mapping.
//
// Contract:
//   - Exists returns (false, nil) when the backing storage has not been
//     created yet.
//   - Append persists one new record and fails with
//     common.ErrUserAlreadyExists when the username is already present.
//     Implementations serialize the duplicate check with the write, so two
//     concurrent Appends of the same name cannot both succeed.
//   - Lookup fails with common.ErrUserNotFound when the username is absent.
//   - Records are never updated or deleted.
type Store interface {
	Exists(ctx context.Context, username string) (bool, error)
	Append(ctx context.Context, username, digest string) error
	Lookup(ctx context.Context, username string) (string, error)
	Close(ctx context.Context) error
}

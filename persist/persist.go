// Package persist holds the two storage tiers behind the store facade.
//
// The light tier (KV) keeps small, frequently-read values: the session
// seat table, the user registry, the current-user pointer, the admin
// password. The heavy tier (BlobStore) keeps the large, rarely-read
// blobs: the full transaction history and the uploaded resource
// registry, which may embed multi-megabyte data URIs.
//
// Writes on both tiers are fire-and-forget: a backend failure is
// logged and the process degrades to in-memory state for the rest of
// its life. Reads report absence as a nil/false result, never as an
// error the caller has to branch on.
package persist

import "context"

// Light-tier keys. The version suffix marks schema breaks: data under
// an older key is orphaned, never migrated.
const (
	KeySessions      = "kobetex:sessions_v3"
	KeyUsers         = "kobetex:users_v1"
	KeyCurrentUser   = "kobetex:current_user_v1"
	KeyAdminPassword = "kobetex:admin_password_v1"
)

// Heavy-tier blob names.
const (
	BlobTransactions = "transactions"
	BlobResources    = "globalResources"
)

// KV is the light synchronous tier.
type KV interface {
	// Set marshals value to JSON and stores it. Never returns an
	// error; backend failures are logged.
	Set(key string, value any)
	// Get unmarshals the stored value into out and reports whether
	// the key was present and readable.
	Get(key string, out any) bool
}

// BlobStore is the heavy asynchronous tier.
type BlobStore interface {
	// Load returns the named blob, or (nil, nil) when it does not
	// exist or the backend is unreachable.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save stores the named blob. Never returns an error; backend
	// failures are logged.
	Save(ctx context.Context, name string, data []byte)
}

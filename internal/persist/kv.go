// Package persist keeps the two pieces of client state that survive a
// restart: the credentials and the selected organization.
package persist

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV.Get for a missing or expired key.
var ErrNotFound = errors.New("key not found")

const (
	KeyAuthenticationData  = "authentication_data"
	KeyCurrentOrganization = "current_organization"
)

// KV is a minimal key-value store for JSON values. A ttl of zero means no
// expiry. Get returns JSON equivalent to what Set stored, not necessarily the
// same bytes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Package metadata stores small client-side key/value facts in the local
// database, such as the signed-in session.
package metadata

import (
	"context"
)

// Repository is a byte-valued key/value table.
//
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}

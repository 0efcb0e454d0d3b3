// Package artifact stores opaque content blobs keyed by path. The gateway
// uses it to offload large window-item contents out of the item store.
package artifact

import "context"

type Store interface {
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, bool, error)
	Delete(ctx context.Context, path string) error
}

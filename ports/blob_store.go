package ports

import (
	"context"

	"payslip/domain/core"
)

// BlobMeta describes an object held by a remote blob store.
type BlobMeta struct {
	Key      string
	Revision core.Revision
	Size     int64
}

// BlobStore is the durable remote mirror of the dataset. Stat returns an error
// wrapping core.ErrBlobNotFound when the object does not exist yet.
type BlobStore interface {
	Stat(ctx context.Context, key string) (*BlobMeta, error)
	Create(ctx context.Context, key string, data []byte, message string) (*BlobMeta, error)
	Update(ctx context.Context, key string, data []byte, rev core.Revision, message string) (*BlobMeta, error)
	Name() string
}

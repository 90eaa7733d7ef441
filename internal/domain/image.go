package domain

import (
	"context"
	"io"
)

// FileStore abstracts raw file byte storage for avatars and ad images.
// Save overwrites an existing key.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

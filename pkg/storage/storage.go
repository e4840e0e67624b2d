package storage

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("blob not found")
	ErrReadOnly = errors.New("blob store is read-only")
)

// BlobStore reads and writes whole blobs addressed by a backend-specific
// locator. Read and Delete return ErrNotFound when nothing is stored at the
// locator.
type BlobStore interface {
	Read(ctx context.Context, locator string) ([]byte, error)
	Write(ctx context.Context, locator string, data []byte) error
	Delete(ctx context.Context, locator string) error
	Exists(ctx context.Context, locator string) (bool, error)
}

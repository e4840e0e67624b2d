package storage

import (
	"context"

	"github.com/pkg/errors"
)

type readOnlyStorage struct {
	BlobStore
}

var _ BlobStore = &readOnlyStorage{}

// NewReadOnly wraps inner so that writes and deletes fail with ErrReadOnly.
func NewReadOnly(inner BlobStore) *readOnlyStorage {
	return &readOnlyStorage{inner}
}

func (ros *readOnlyStorage) Write(_ context.Context, locator string, _ []byte) error {
	return errors.Wrapf(ErrReadOnly, "cannot write %s", locator)
}

func (ros *readOnlyStorage) Delete(_ context.Context, locator string) error {
	return errors.Wrapf(ErrReadOnly, "cannot delete %s", locator)
}

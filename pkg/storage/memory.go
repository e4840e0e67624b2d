package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

type memoryStorage struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

var _ BlobStore = &memoryStorage{}

// NewMemoryStorage creates a process-local BlobStore.
func NewMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: make(map[string][]byte)}
}

func (ms *memoryStorage) Read(ctx context.Context, key string) ([]byte, error) {
	hclog.FromContext(ctx).Debug("Reading blob from memory", "key", key)

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, ok := ms.blobs[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", key)
	}

	return slices.Clone(data), nil
}

func (ms *memoryStorage) Write(ctx context.Context, key string, data []byte) error {
	hclog.FromContext(ctx).Debug("Writing blob to memory", "key", key, "bytes", len(data))

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.blobs[key] = slices.Clone(data)
	return nil
}

func (ms *memoryStorage) Delete(ctx context.Context, key string) error {
	hclog.FromContext(ctx).Debug("Deleting blob from memory", "key", key)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.blobs[key]; !ok {
		return errors.Wrapf(ErrNotFound, "%s", key)
	}

	delete(ms.blobs, key)
	return nil
}

func (ms *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	_, ok := ms.blobs[key]
	return ok, nil
}

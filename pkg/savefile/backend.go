package savefile

import (
	"path/filepath"

	"github.com/ergomake/savefile/pkg/storage"
)

// Backend pairs a blob store with the rule turning a caller's locator into
// the store's physical locator.
type Backend struct {
	Blobs   storage.BlobStore
	Resolve func(locator string) string
}

// DirBackend joins locators onto base.
func DirBackend(blobs storage.BlobStore, base string) Backend {
	return Backend{
		Blobs: blobs,
		Resolve: func(locator string) string {
			return filepath.Join(base, locator)
		},
	}
}

// FlatBackend passes locators through unchanged.
func FlatBackend(blobs storage.BlobStore) Backend {
	return Backend{
		Blobs:   blobs,
		Resolve: func(locator string) string { return locator },
	}
}

// Paths are the base directories of the directory-backed locations.
type Paths struct {
	Persistent string `yaml:"persistent"`
	Streaming  string `yaml:"streaming"`
	Resources  string `yaml:"resources"`
}

package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"
)

type fileStorage struct{}

var _ BlobStore = &fileStorage{}

// NewFileStorage creates a BlobStore whose locators are filesystem paths.
func NewFileStorage() *fileStorage {
	return &fileStorage{}
}

func (fls *fileStorage) Read(ctx context.Context, fpath string) ([]byte, error) {
	hclog.FromContext(ctx).Debug("Reading save file", "path", fpath)

	raw, err := os.ReadFile(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "%s", fpath)
	}

	return raw, errors.Wrapf(err, "fail to read %s", fpath)
}

// Write replaces the file at fpath through a temporary sibling so readers
// never observe a partial write.
func (fls *fileStorage) Write(ctx context.Context, fpath string, data []byte) error {
	hclog.FromContext(ctx).Debug("Writing save file", "path", fpath, "bytes", len(data))

	dir := filepath.Dir(fpath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "fail to create directory %s", dir)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(fpath)+"."+shortuuid.New()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "fail to write %s", tmp)
	}

	if err := os.Rename(tmp, fpath); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "fail to move %s into place", tmp)
	}

	return nil
}

func (fls *fileStorage) Delete(ctx context.Context, fpath string) error {
	hclog.FromContext(ctx).Debug("Deleting save file", "path", fpath)

	err := os.Remove(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(ErrNotFound, "%s", fpath)
	}

	return errors.Wrapf(err, "fail to delete %s", fpath)
}

func (fls *fileStorage) Exists(ctx context.Context, fpath string) (bool, error) {
	info, err := os.Stat(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "fail to stat %s", fpath)
	}

	return !info.IsDir(), nil
}

package storage

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type redisStorage struct {
	client redis.UniversalClient
	prefix string
}

var _ BlobStore = &redisStorage{}

// NewRedisStorage stores each blob as a plain string value under prefix+key.
func NewRedisStorage(client redis.UniversalClient, prefix string) *redisStorage {
	return &redisStorage{client: client, prefix: prefix}
}

func (rs *redisStorage) key(locator string) string {
	return rs.prefix + locator
}

func (rs *redisStorage) Read(ctx context.Context, locator string) ([]byte, error) {
	hclog.FromContext(ctx).Debug("Reading blob from redis", "key", rs.key(locator))

	data, err := rs.client.Get(ctx, rs.key(locator)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Wrapf(ErrNotFound, "%s", locator)
	}

	return data, errors.Wrapf(err, "fail to read %s from redis", locator)
}

func (rs *redisStorage) Write(ctx context.Context, locator string, data []byte) error {
	hclog.FromContext(ctx).Debug("Writing blob to redis", "key", rs.key(locator), "bytes", len(data))

	err := rs.client.Set(ctx, rs.key(locator), data, 0).Err()
	return errors.Wrapf(err, "fail to write %s to redis", locator)
}

func (rs *redisStorage) Delete(ctx context.Context, locator string) error {
	hclog.FromContext(ctx).Debug("Deleting blob from redis", "key", rs.key(locator))

	n, err := rs.client.Del(ctx, rs.key(locator)).Result()
	if err != nil {
		return errors.Wrapf(err, "fail to delete %s from redis", locator)
	}

	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s", locator)
	}

	return nil
}

func (rs *redisStorage) Exists(ctx context.Context, locator string) (bool, error) {
	n, err := rs.client.Exists(ctx, rs.key(locator)).Result()
	if err != nil {
		return false, errors.Wrapf(err, "fail to look up %s in redis", locator)
	}

	return n > 0, nil
}

package sfconfig

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/savefile"
	"github.com/ergomake/savefile/pkg/storage"
)

// Settings returns the default save settings named by the config.
func (c *Config) Settings() (savefile.Settings, error) {
	location, err := savefile.ParseLocation(c.Defaults.Location)
	if err != nil {
		return savefile.Settings{}, err
	}

	format, err := codec.ParseFormat(c.Defaults.Format)
	if err != nil {
		return savefile.Settings{}, err
	}

	return savefile.Settings{Location: location, Format: format, Compress: c.Defaults.Compress}, nil
}

func (c *Config) keyValueStore(ctx context.Context) (storage.BlobStore, func() error, error) {
	kv := c.KeyValue
	switch kv.Type {
	case "sqlite":
		s, err := storage.NewSQLiteStorage(c.resolve(kv.Path))
		if err != nil {
			return nil, nil, errors.Wrap(err, "fail to initialize sqlite key-value store")
		}
		return s, s.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: kv.Addr, Password: kv.Password, DB: kv.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, errors.Wrapf(err, "fail to reach redis at %s", kv.Addr)
		}
		return storage.NewRedisStorage(client, kv.Prefix), client.Close, nil
	}

	return storage.NewMemoryStorage(), func() error { return nil }, nil
}

// NewStore builds a Store with every location the config describes. The
// returned close func releases the key-value backend. A nil codec uses the
// built-in registry only.
func (c *Config) NewStore(ctx context.Context, cd *codec.Codec) (*savefile.Store, func() error, error) {
	if cd == nil {
		cd = codec.New(nil)
	}

	settings, err := c.Settings()
	if err != nil {
		return nil, nil, errors.Wrap(err, "fail to read default settings")
	}

	kv, closeKV, err := c.keyValueStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []savefile.Option{
		savefile.WithCodec(cd),
		savefile.WithDefaults(settings),
		savefile.WithPaths(savefile.Paths{
			Persistent: c.resolve(c.Paths.Persistent),
			Streaming:  c.resolve(c.Paths.Streaming),
			Resources:  c.resolve(c.Paths.Resources),
		}),
		savefile.WithBackend(savefile.KeyValueStore, savefile.FlatBackend(kv)),
	}

	if c.Bucket.Name != "" {
		bucket, err := storage.NewS3Backend(c.Bucket.Name, c.Bucket.Prefix, c.Bucket.Region)
		if err != nil {
			var result *multierror.Error
			result = multierror.Append(result, errors.Wrap(err, "fail to initialize s3 backend"))
			if cerr := closeKV(); cerr != nil {
				result = multierror.Append(result, cerr)
			}
			return nil, nil, result.ErrorOrNil()
		}
		opts = append(opts, savefile.WithBackend(savefile.Bucket, savefile.FlatBackend(bucket)))
	}

	hclog.FromContext(ctx).Debug(
		"Store configured",
		"persistent", c.resolve(c.Paths.Persistent),
		"keyValue", c.KeyValue.Type,
		"bucket", c.Bucket.Name,
		"defaultLocation", settings.Location,
	)

	return savefile.New(opts...), closeKV, nil
}

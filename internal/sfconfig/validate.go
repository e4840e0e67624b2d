package sfconfig

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/savefile"
)

func Validate(cfg Config) error {
	var result *multierror.Error

	switch cfg.KeyValue.Type {
	case "memory":
	case "sqlite":
		if cfg.KeyValue.Path == "" {
			result = multierror.Append(result, errors.New("sqlite key-value path cannot be empty"))
		}
	case "redis":
		if cfg.KeyValue.Addr == "" {
			result = multierror.Append(result, errors.New("redis key-value addr cannot be empty"))
		}
		if cfg.KeyValue.DB < 0 {
			result = multierror.Append(result, errors.Errorf("invalid redis db: %d", cfg.KeyValue.DB))
		}
	default:
		result = multierror.Append(result, errors.Errorf("invalid key-value type: %q", cfg.KeyValue.Type))
	}

	if cfg.Bucket.Name != "" && cfg.Bucket.Region == "" {
		result = multierror.Append(result, errors.New("S3 bucket region cannot be empty"))
	}

	location, err := savefile.ParseLocation(cfg.Defaults.Location)
	if err != nil {
		result = multierror.Append(result, errors.Wrap(err, "invalid default location"))
	}

	if location == savefile.Bucket && cfg.Bucket.Name == "" {
		result = multierror.Append(result, errors.New("default location is Bucket but no bucket is configured"))
	}

	if _, err := codec.ParseFormat(cfg.Defaults.Format); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "invalid default format"))
	}

	return result.ErrorOrNil()
}

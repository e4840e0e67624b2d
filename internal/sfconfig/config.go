package sfconfig

import (
	"context"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "SAVEFILE_CONFIG"

type Paths struct {
	Persistent string `yaml:"persistent,omitempty" env:"SAVEFILE_PERSISTENT_DIR"`
	Streaming  string `yaml:"streaming,omitempty" env:"SAVEFILE_STREAMING_DIR"`
	Resources  string `yaml:"resources,omitempty" env:"SAVEFILE_RESOURCES_DIR"`
}

// KeyValue selects the backend behind the KeyValueStore location.
type KeyValue struct {
	Type     string `yaml:"type,omitempty" env:"SAVEFILE_KV_TYPE"`
	Path     string `yaml:"path,omitempty" env:"SAVEFILE_KV_PATH"`
	Addr     string `yaml:"addr,omitempty" env:"SAVEFILE_KV_ADDR"`
	Password string `yaml:"password,omitempty" env:"SAVEFILE_KV_PASSWORD"`
	DB       int    `yaml:"db,omitempty" env:"SAVEFILE_KV_DB"`
	Prefix   string `yaml:"prefix,omitempty" env:"SAVEFILE_KV_PREFIX"`
}

// Bucket configures the S3 bucket behind the Bucket location. It is only
// registered when Name is set.
type Bucket struct {
	Name   string `yaml:"name,omitempty" env:"SAVEFILE_BUCKET"`
	Region string `yaml:"region,omitempty" env:"SAVEFILE_BUCKET_REGION"`
	Prefix string `yaml:"prefix,omitempty" env:"SAVEFILE_BUCKET_PREFIX"`
}

type Defaults struct {
	Location string `yaml:"location,omitempty" env:"SAVEFILE_LOCATION"`
	Format   string `yaml:"format,omitempty" env:"SAVEFILE_FORMAT"`
	Compress bool   `yaml:"compress,omitempty" env:"SAVEFILE_COMPRESS"`
}

type Config struct {
	Paths    Paths    `yaml:"paths"`
	KeyValue KeyValue `yaml:"keyValue"`
	Bucket   Bucket   `yaml:"bucket"`
	Defaults Defaults `yaml:"defaults"`

	path string
}

func DefaultConfig() Config {
	return Config{
		Paths: Paths{
			Persistent: "saves",
			Streaming:  "streaming",
			Resources:  "resources",
		},
		KeyValue: KeyValue{Type: "memory"},
		Defaults: Defaults{
			Location: "PersistentPath",
			Format:   "text",
		},
	}
}

// Merge returns c with every non-zero field of other applied on top.
func (c Config) Merge(other Config) Config {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	set(&c.Paths.Persistent, other.Paths.Persistent)
	set(&c.Paths.Streaming, other.Paths.Streaming)
	set(&c.Paths.Resources, other.Paths.Resources)

	set(&c.KeyValue.Type, other.KeyValue.Type)
	set(&c.KeyValue.Path, other.KeyValue.Path)
	set(&c.KeyValue.Addr, other.KeyValue.Addr)
	set(&c.KeyValue.Password, other.KeyValue.Password)
	set(&c.KeyValue.Prefix, other.KeyValue.Prefix)
	if other.KeyValue.DB != 0 {
		c.KeyValue.DB = other.KeyValue.DB
	}

	set(&c.Bucket.Name, other.Bucket.Name)
	set(&c.Bucket.Region, other.Bucket.Region)
	set(&c.Bucket.Prefix, other.Bucket.Prefix)

	set(&c.Defaults.Location, other.Defaults.Location)
	set(&c.Defaults.Format, other.Defaults.Format)
	if other.Defaults.Compress {
		c.Defaults.Compress = true
	}

	if other.path != "" {
		c.path = other.path
	}

	return c
}

func getDefaultPath() (string, error) {
	if p := os.Getenv(configPathEnv); p != "" {
		return p, nil
	}

	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "fail to get user home dir")
	}

	return filepath.Join(homedir, ".savefile", "config"), nil
}

// Load reads the config file at path, or the default location when path is
// empty, then applies SAVEFILE_* environment overrides and validates the
// result. A missing default config file yields DefaultConfig.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := hclog.FromContext(ctx)

	explicit := path != ""
	if !explicit {
		p, err := getDefaultPath()
		if err != nil {
			return nil, errors.Wrap(err, "fail to get default path")
		}

		path = p
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(err, "fail to decode config content")
		}

		cfg = cfg.Merge(file)
	case errors.Is(err, os.ErrNotExist) && !explicit:
		logger.Debug("No config file, using defaults", "path", path)
	default:
		return nil, errors.Wrap(err, "fail to read config file")
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "fail to parse environment overrides")
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger.Debug("Config loaded", "path", path, "keyValue", cfg.KeyValue.Type, "bucket", cfg.Bucket.Name)

	return &cfg, nil
}

// Path is the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// resolve anchors a relative dir at the config file's directory.
func (c *Config) resolve(dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(filepath.Dir(c.path), dir)
}

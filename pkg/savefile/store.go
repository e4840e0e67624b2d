// Package savefile stores keyed, typed values in single-blob containers on a
// choice of physical backends.
//
// A Store runs every operation as a load-mutate-save cycle against the
// backend registered for the requested Location, keeping the last loaded
// container in a single-entry read cache. Every Store operation takes an
// internal mutex. A cached container only ever holds values decoded from a
// blob, never the values a caller handed to Save.
package savefile

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/container"
	"github.com/ergomake/savefile/pkg/storage"
)

var (
	// ErrMissingFile is returned when loading from a locator with no blob.
	ErrMissingFile = errors.New("save file not found")
	// ErrLocationNotConfigured is returned for a Location without a backend.
	ErrLocationNotConfigured = errors.New("location not configured")
)

type Store struct {
	codec    *codec.Codec
	backends map[Location]Backend
	defaults Settings
	cache    *ReadCache
	mu       sync.Mutex
}

type Option func(*Store)

func WithCodec(c *codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

func WithDefaults(settings Settings) Option {
	return func(s *Store) {
		if settings.Location == DefaultLocation {
			settings.Location = PersistentPath
		}
		s.defaults = settings
	}
}

func WithBackend(location Location, backend Backend) Option {
	return func(s *Store) { s.backends[location] = backend }
}

// WithPaths registers file-backed PersistentPath, StreamingPath and
// ResourcesReadOnly locations for every non-empty directory in paths.
func WithPaths(paths Paths) Option {
	return func(s *Store) {
		files := storage.NewFileStorage()
		if paths.Persistent != "" {
			s.backends[PersistentPath] = DirBackend(files, paths.Persistent)
		}
		if paths.Streaming != "" {
			s.backends[StreamingPath] = DirBackend(files, paths.Streaming)
		}
		if paths.Resources != "" {
			s.backends[ResourcesReadOnly] = DirBackend(storage.NewReadOnly(files), paths.Resources)
		}
	}
}

// New creates a Store. AbsolutePath is always backed by the filesystem and
// KeyValueStore defaults to an in-process store.
func New(opts ...Option) *Store {
	s := &Store{
		codec:    codec.New(nil),
		defaults: DefaultSettings(),
		cache:    NewReadCache(),
		backends: map[Location]Backend{
			AbsolutePath:  FlatBackend(storage.NewFileStorage()),
			KeyValueStore: FlatBackend(storage.NewMemoryStorage()),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Codec() *codec.Codec {
	return s.codec
}

func (s *Store) Defaults() Settings {
	return s.defaults
}

func (s *Store) settings(settings *Settings) Settings {
	if settings == nil {
		return s.defaults
	}

	out := *settings
	out.Location = s.location(out.Location)
	return out
}

func (s *Store) location(location Location) Location {
	if location == DefaultLocation {
		return s.defaults.Location
	}

	return location
}

type target struct {
	location Location
	backend  Backend
	physical string
}

func (t target) cacheKey() string {
	return cacheKey(t.location, t.physical)
}

func (s *Store) resolve(location Location, locator string) (target, error) {
	location = s.location(location)

	if strings.TrimSpace(locator) == "" {
		return target{}, errors.New("locator cannot be empty")
	}

	backend, ok := s.backends[location]
	if !ok {
		return target{}, errors.Wrapf(ErrLocationNotConfigured, "%s", location)
	}

	return target{location: location, backend: backend, physical: backend.Resolve(locator)}, nil
}

// open returns the container at t and whether it came from the cache. On a
// miss a load reads the blob, fails when it is absent and caches the result,
// while a save treats an absent blob as an empty container and leaves the
// cache alone.
func (s *Store) open(ctx context.Context, t target, forSave bool) (*container.Container, bool, error) {
	logger := hclog.FromContext(ctx)

	if c, ok := s.cache.Get(t.cacheKey()); ok {
		logger.Trace("Read cache hit", "location", t.location, "locator", t.physical)
		return c, true, nil
	}

	data, err := t.backend.Blobs.Read(ctx, t.physical)
	if errors.Is(err, storage.ErrNotFound) {
		if forSave {
			logger.Debug("No save file yet, starting an empty container", "location", t.location, "locator", t.physical)
			return container.New(), false, nil
		}

		return nil, false, errors.Wrapf(ErrMissingFile, "%s at %s", t.physical, t.location)
	}

	if err != nil {
		return nil, false, errors.Wrapf(err, "fail to read %s", t.physical)
	}

	c, err := container.Unmarshal(s.codec, data)
	if err != nil {
		return nil, false, errors.Wrapf(err, "fail to decode %s", t.physical)
	}

	if !forSave {
		s.cache.Put(t.cacheKey(), c)
	}

	return c, false, nil
}

// write persists c and returns the bytes written. Any failure clears the
// cache, since a cached c may already hold the unwritten changes.
func (s *Store) write(ctx context.Context, t target, c *container.Container) ([]byte, error) {
	hclog.FromContext(ctx).Debug(
		"Writing container",
		"location", t.location,
		"locator", t.physical,
		"format", c.Format,
		"compressed", c.Compressed,
		"keys", c.Len(),
	)

	data, err := c.Marshal(s.codec)
	if err != nil {
		s.cache.Clear()
		return nil, errors.Wrapf(err, "fail to encode %s", t.physical)
	}

	if err := t.backend.Blobs.Write(ctx, t.physical, data); err != nil {
		s.cache.Clear()
		return nil, errors.Wrapf(err, "fail to write %s", t.physical)
	}

	return data, nil
}

// Save stores value under key in the container at locator, creating the
// container when needed. A nil settings uses the store defaults. The whole
// container is re-encoded with the given settings. When the container was
// cached, the cache is refreshed from the written bytes so later changes to
// value are not seen by Load.
func (s *Store) Save(ctx context.Context, key string, value any, locator string, settings *Settings) error {
	cfg := s.settings(settings)
	hclog.FromContext(ctx).Debug("Saving key", "key", key, "locator", locator, "location", cfg.Location)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(cfg.Location, locator)
	if err != nil {
		return err
	}

	c, cached, err := s.open(ctx, t, true)
	if err != nil {
		return err
	}

	c.Set(ctx, key, value)
	c.SetMetadata(cfg.Compress, cfg.Format)

	data, err := s.write(ctx, t, c)
	if err != nil || !cached {
		return err
	}

	fresh, err := container.Unmarshal(s.codec, data)
	if err != nil {
		hclog.FromContext(ctx).Warn("Fail to refresh read cache", "locator", t.physical, "error", err)
		s.cache.Clear()
		return nil
	}

	s.cache.Put(t.cacheKey(), fresh)
	return nil
}

func (s *Store) withContainer(ctx context.Context, locator string, location Location, fn func(*container.Container)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(location, locator)
	if err != nil {
		return err
	}

	c, _, err := s.open(ctx, t, false)
	if err != nil {
		return err
	}

	fn(c)
	return nil
}

// Load returns the value stored under key, or nil when the key is absent.
func (s *Store) Load(ctx context.Context, key, locator string, location Location) (any, error) {
	hclog.FromContext(ctx).Debug("Loading key", "key", key, "locator", locator, "location", s.location(location))

	var value any
	err := s.withContainer(ctx, locator, location, func(c *container.Container) {
		value = c.Get(ctx, key)
	})

	return value, err
}

// Load returns the value stored under key as a T. A missing key or a value of
// another type yields the zero T and is only logged; a missing or unreadable
// blob is an error.
func Load[T any](ctx context.Context, s *Store, key, locator string, location Location) (T, error) {
	hclog.FromContext(ctx).Debug("Loading key", "key", key, "locator", locator, "location", s.location(location))

	var value T
	err := s.withContainer(ctx, locator, location, func(c *container.Container) {
		value = container.GetAs[T](ctx, c, key)
	})

	return value, err
}

// ContainsKey reports whether the container at locator holds key.
func (s *Store) ContainsKey(ctx context.Context, key, locator string, location Location) (bool, error) {
	var found bool
	err := s.withContainer(ctx, locator, location, func(c *container.Container) {
		found = c.ContainsKey(key)
	})

	return found, err
}

// Keys lists the keys of the container at locator in sorted order.
func (s *Store) Keys(ctx context.Context, locator string, location Location) ([]string, error) {
	var keys []string
	err := s.withContainer(ctx, locator, location, func(c *container.Container) {
		keys = c.Keys()
	})

	return keys, err
}

// Exists reports whether a blob is stored at locator.
func (s *Store) Exists(ctx context.Context, locator string, location Location) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(location, locator)
	if err != nil {
		return false, err
	}

	exists, err := t.backend.Blobs.Exists(ctx, t.physical)
	return exists, errors.Wrapf(err, "fail to check %s", t.physical)
}

// DeleteKey removes key from the container at locator and rewrites it with
// the format and compression the container was last persisted with. An
// absent key is logged and leaves the blob untouched.
func (s *Store) DeleteKey(ctx context.Context, key, locator string, location Location) error {
	logger := hclog.FromContext(ctx)
	logger.Debug("Deleting key", "key", key, "locator", locator, "location", s.location(location))

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(location, locator)
	if err != nil {
		return err
	}

	c, _, err := s.open(ctx, t, false)
	if err != nil {
		return err
	}

	if !c.ContainsKey(key) {
		logger.Warn("Key not in save file, nothing to delete", "key", key, "locator", t.physical)
		return nil
	}

	c.Remove(ctx, key)
	_, err = s.write(ctx, t, c)
	return err
}

// DeleteFile clears the read cache and deletes the blob at locator. Deleting
// a blob that does not exist is logged, not an error.
func (s *Store) DeleteFile(ctx context.Context, locator string, location Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteFile(ctx, locator, location)
}

func (s *Store) deleteFile(ctx context.Context, locator string, location Location) error {
	logger := hclog.FromContext(ctx)

	s.cache.Clear()

	t, err := s.resolve(location, locator)
	if err != nil {
		return err
	}

	logger.Debug("Deleting save file", "locator", t.physical, "location", t.location)

	err = t.backend.Blobs.Delete(ctx, t.physical)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("No save file to delete", "locator", t.physical, "location", t.location)
		return nil
	}

	return errors.Wrapf(err, "fail to delete %s", t.physical)
}

// MoveFile loads the container at oldLocator, deletes it, and writes it to
// newLocator with settings. The steps are not atomic: a failure after the
// delete loses the container.
func (s *Store) MoveFile(ctx context.Context, oldLocator string, oldLocation Location, newLocator string, settings *Settings) error {
	cfg := s.settings(settings)
	logger := hclog.FromContext(ctx)
	logger.Debug(
		"Moving save file",
		"from", oldLocator,
		"fromLocation", s.location(oldLocation),
		"to", newLocator,
		"toLocation", cfg.Location,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.resolve(oldLocation, oldLocator)
	if err != nil {
		return err
	}

	to, err := s.resolve(cfg.Location, newLocator)
	if err != nil {
		return err
	}

	c, _, err := s.open(ctx, from, false)
	if err != nil {
		return err
	}

	if err := s.deleteFile(ctx, oldLocator, oldLocation); err != nil {
		return errors.Wrap(err, "fail to delete source save file")
	}

	c.SetMetadata(cfg.Compress, cfg.Format)
	if _, err := s.write(ctx, to, c); err != nil {
		logger.Error("Save file deleted but not rewritten", "from", from.physical, "to", to.physical, "error", err)
		return errors.Wrap(err, "fail to write moved save file")
	}

	return nil
}

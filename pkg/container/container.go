package container

import (
	"context"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/savefile/pkg/codec"
)

// Soft errors. They are logged by the container and never returned from Get,
// Add or Remove.
var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Container is a keyed bundle of values persisted as a single blob. Format
// and Compressed record how it was last persisted. A Container is not safe
// for concurrent use.
type Container struct {
	Format     codec.Format   `json:"format"`
	Compressed bool           `json:"compressed"`
	Data       map[string]any `json:"data"`
}

func New() *Container {
	return &Container{Format: codec.Text, Data: make(map[string]any)}
}

func (c *Container) data() map[string]any {
	if c.Data == nil {
		c.Data = make(map[string]any)
	}

	return c.Data
}

// Set stores value under key, replacing any previous value.
func (c *Container) Set(ctx context.Context, key string, value any) {
	data := c.data()
	if _, ok := data[key]; !ok {
		hclog.FromContext(ctx).Info("Key not in container, adding it", "key", key)
	}

	data[key] = value
}

// Add stores value under key only when key is absent.
func (c *Container) Add(ctx context.Context, key string, value any) {
	data := c.data()
	if _, ok := data[key]; ok {
		hclog.FromContext(ctx).Info("Key already in container, ignoring add", "key", key, "error", ErrDuplicateKey)
		return
	}

	data[key] = value
}

func (c *Container) Remove(ctx context.Context, key string) {
	if _, ok := c.Data[key]; !ok {
		hclog.FromContext(ctx).Warn("Key not in container, nothing to remove", "key", key)
		return
	}

	delete(c.Data, key)
}

// Get returns the value stored under key, or nil when there is none.
func (c *Container) Get(ctx context.Context, key string) any {
	value, ok := c.Data[key]
	if !ok {
		hclog.FromContext(ctx).Error("Key not in container", "key", key, "error", ErrKeyNotFound)
		return nil
	}

	return value
}

// Lookup is Get without logging.
func (c *Container) Lookup(key string) (any, bool) {
	value, ok := c.Data[key]
	return value, ok
}

func (c *Container) ContainsKey(key string) bool {
	_, ok := c.Data[key]
	return ok
}

// SetMetadata records the encoding the container is about to be persisted
// with.
func (c *Container) SetMetadata(compress bool, format codec.Format) {
	c.Compressed = compress
	c.Format = format
}

func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.Data))
	for key := range c.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func (c *Container) Len() int {
	return len(c.Data)
}

// GetAs returns the value stored under key as a T. It returns the zero T when
// the key is absent or holds a value of another type.
func GetAs[T any](ctx context.Context, c *Container, key string) T {
	var zero T

	value := c.Get(ctx, key)
	if value == nil {
		return zero
	}

	typed, ok := value.(T)
	if !ok {
		hclog.FromContext(ctx).Warn(
			"Stored value has a different type",
			"key", key,
			"stored", typeName(value),
			"requested", typeName(zero),
		)
		return zero
	}

	return typed
}

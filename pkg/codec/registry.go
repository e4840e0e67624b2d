package codec

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	pointerPrefix = "*"
	slicePrefix   = "[]"
	mapPrefix     = "map[string]"
)

// Registry maps type discriminators to Go types. Registered names compose:
// a type registered as "Fruit" is also reachable as "*Fruit", "[]Fruit" and
// "map[string]Fruit".
type Registry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewRegistry returns a registry preloaded with the built-in names.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}

	builtins := map[string]reflect.Type{
		"any":     reflect.TypeFor[any](),
		"bool":    reflect.TypeFor[bool](),
		"string":  reflect.TypeFor[string](),
		"int":     reflect.TypeFor[int](),
		"int8":    reflect.TypeFor[int8](),
		"int16":   reflect.TypeFor[int16](),
		"int32":   reflect.TypeFor[int32](),
		"int64":   reflect.TypeFor[int64](),
		"uint":    reflect.TypeFor[uint](),
		"uint8":   reflect.TypeFor[uint8](),
		"uint16":  reflect.TypeFor[uint16](),
		"uint32":  reflect.TypeFor[uint32](),
		"uint64":  reflect.TypeFor[uint64](),
		"float32": reflect.TypeFor[float32](),
		"float64": reflect.TypeFor[float64](),
		"bytes":   reflect.TypeFor[[]byte](),
		"number":  reflect.TypeFor[json.Number](),
		"time":    reflect.TypeFor[time.Time](),
	}
	for name, t := range builtins {
		r.byName[name] = t
		r.byType[t] = name
	}

	return r
}

// Register binds name to the concrete type of sample.
func (r *Registry) Register(name string, sample any) error {
	if sample == nil {
		return errors.New("cannot register a nil sample")
	}

	return r.register(name, reflect.TypeOf(sample))
}

// Register binds name to T.
func Register[T any](r *Registry, name string) error {
	return r.register(name, reflect.TypeFor[T]())
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](r *Registry, name string) {
	if err := Register[T](r, name); err != nil {
		panic(err)
	}
}

func (r *Registry) register(name string, t reflect.Type) error {
	if name == "" {
		return errors.New("type name cannot be empty")
	}

	if strings.HasPrefix(name, pointerPrefix) || strings.HasPrefix(name, slicePrefix) || strings.HasPrefix(name, mapPrefix) {
		return errors.Errorf("type name %q uses a reserved prefix", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byName[name]; ok && prev != t {
		return errors.Errorf("type name %q already registered for %s", name, prev)
	}

	if prev, ok := r.byType[t]; ok && prev != name {
		return errors.Errorf("type %s already registered as %q", t, prev)
	}

	r.byName[name] = t
	r.byType[t] = name
	return nil
}

// NameOf returns the discriminator for t.
func (r *Registry) NameOf(t reflect.Type) (string, error) {
	r.mu.RLock()
	name, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return name, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := r.NameOf(t.Elem())
		return pointerPrefix + elem, err
	case reflect.Slice:
		elem, err := r.NameOf(t.Elem())
		return slicePrefix + elem, err
	case reflect.Map:
		if t.Key() == reflect.TypeFor[string]() {
			elem, err := r.NameOf(t.Elem())
			return mapPrefix + elem, err
		}
	}

	return "", errors.Wrapf(ErrUnregisteredType, "%s", t)
}

// TypeOf resolves a discriminator back to its type.
func (r *Registry) TypeOf(name string) (reflect.Type, error) {
	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	switch {
	case strings.HasPrefix(name, pointerPrefix):
		elem, err := r.TypeOf(strings.TrimPrefix(name, pointerPrefix))
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(name, slicePrefix):
		elem, err := r.TypeOf(strings.TrimPrefix(name, slicePrefix))
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(name, mapPrefix):
		elem, err := r.TypeOf(strings.TrimPrefix(name, mapPrefix))
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(reflect.TypeFor[string](), elem), nil
	}

	return nil, errors.Wrapf(ErrTypeMismatch, "unknown type discriminator %q", name)
}

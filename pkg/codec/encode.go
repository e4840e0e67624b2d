package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	typeKey  = "$type"
	valueKey = "$value"
)

var (
	marshalerType   = reflect.TypeFor[json.Marshaler]()
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	numberType      = reflect.TypeFor[json.Number]()
)

type visitKey struct {
	ptr unsafe.Pointer
	typ reflect.Type
}

type encodeState struct {
	bytes.Buffer
	registry *Registry
	visiting map[visitKey]struct{}
}

func newEncodeState(registry *Registry) *encodeState {
	return &encodeState{registry: registry, visiting: make(map[visitKey]struct{})}
}

// encode writes v and reports whether anything was written. It writes nothing
// when v is a back-edge to a pointer or map that is still being encoded.
func (e *encodeState) encode(v reflect.Value) (bool, error) {
	if !v.IsValid() {
		e.WriteString("null")
		return true, nil
	}

	if m, ok := marshalerOf(v); ok {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			e.WriteString("null")
			return true, nil
		}

		raw, err := m.MarshalJSON()
		if err != nil {
			return false, errors.Wrapf(err, "fail to marshal %s", v.Type())
		}

		if err := json.Compact(&e.Buffer, raw); err != nil {
			return false, errors.Wrapf(err, "invalid json from %s", v.Type())
		}

		return true, nil
	}

	switch v.Kind() {
	case reflect.Interface:
		return e.encodeInterface(v)
	case reflect.Pointer:
		if v.IsNil() {
			e.WriteString("null")
			return true, nil
		}

		key := visitKey{ptr: v.UnsafePointer(), typ: v.Type()}
		if _, ok := e.visiting[key]; ok {
			return false, nil
		}

		e.visiting[key] = struct{}{}
		defer delete(e.visiting, key)

		return e.encode(v.Elem())
	case reflect.Struct:
		return true, e.encodeStruct(v)
	case reflect.Map:
		if v.IsNil() {
			e.WriteString("null")
			return true, nil
		}

		key := visitKey{ptr: v.UnsafePointer(), typ: v.Type()}
		if _, ok := e.visiting[key]; ok {
			return false, nil
		}

		e.visiting[key] = struct{}{}
		defer delete(e.visiting, key)

		return true, e.encodeMap(v)
	case reflect.Slice:
		if v.IsNil() {
			e.WriteString("null")
			return true, nil
		}

		if v.Type().Elem().Kind() == reflect.Uint8 {
			e.writeString(base64.StdEncoding.EncodeToString(v.Bytes()))
			return true, nil
		}

		return true, e.encodeList(v)
	case reflect.Array:
		return true, e.encodeList(v)
	case reflect.Bool:
		e.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		if v.Type() == numberType {
			if _, err := strconv.ParseFloat(v.String(), 64); err != nil {
				return false, errors.Wrapf(ErrFormat, "invalid number %q", v.String())
			}
			e.WriteString(v.String())
			return true, nil
		}
		e.writeString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false, errors.Wrapf(ErrUnsupportedType, "cannot encode float value %v", f)
		}
		e.WriteString(strconv.FormatFloat(f, 'g', -1, v.Type().Bits()))
	default:
		return false, errors.Wrapf(ErrUnsupportedType, "%s", v.Type())
	}

	return true, nil
}

// marshalerOf returns v's json.Marshaler, including one declared on *T for a
// T held by value, mirroring how decode finds json.Unmarshaler.
func marshalerOf(v reflect.Value) (json.Marshaler, bool) {
	if v.Kind() == reflect.Interface {
		return nil, false
	}

	if v.Type().Implements(marshalerType) {
		return v.Interface().(json.Marshaler), true
	}

	if v.Kind() == reflect.Pointer || !reflect.PointerTo(v.Type()).Implements(marshalerType) {
		return nil, false
	}

	if v.CanAddr() {
		return v.Addr().Interface().(json.Marshaler), true
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(json.Marshaler), true
}

func (e *encodeState) encodeInterface(v reflect.Value) (bool, error) {
	if v.IsNil() {
		e.WriteString("null")
		return true, nil
	}

	elem := v.Elem()
	name, err := e.registry.NameOf(elem.Type())
	if err != nil {
		return false, err
	}

	mark := e.Len()
	e.WriteString(`{"` + typeKey + `":`)
	e.writeString(name)
	e.WriteString(`,"` + valueKey + `":`)

	wrote, err := e.encode(elem)
	if err != nil || !wrote {
		e.Truncate(mark)
		return false, err
	}

	e.WriteByte('}')
	return true, nil
}

func (e *encodeState) encodeStruct(v reflect.Value) error {
	e.WriteByte('{')

	first := true
	for _, f := range fieldsOf(v.Type()) {
		fv := v.FieldByIndex(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}

		mark := e.Len()
		if !first {
			e.WriteByte(',')
		}
		e.writeString(f.name)
		e.WriteByte(':')

		wrote, err := e.encode(fv)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.name)
		}

		if !wrote {
			e.Truncate(mark)
			continue
		}

		first = false
	}

	e.WriteByte('}')
	return nil
}

func (e *encodeState) encodeMap(v reflect.Value) error {
	type entry struct {
		key   string
		value reflect.Value
	}

	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, err := mapKeyString(iter.Key())
		if err != nil {
			return err
		}
		entries = append(entries, entry{key: key, value: iter.Value()})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	e.WriteByte('{')

	first := true
	for _, en := range entries {
		mark := e.Len()
		if !first {
			e.WriteByte(',')
		}
		e.writeString(en.key)
		e.WriteByte(':')

		wrote, err := e.encode(en.value)
		if err != nil {
			return errors.Wrapf(err, "key %s", en.key)
		}

		if !wrote {
			e.Truncate(mark)
			continue
		}

		first = false
	}

	e.WriteByte('}')
	return nil
}

func (e *encodeState) encodeList(v reflect.Value) error {
	e.WriteByte('[')

	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			e.WriteByte(',')
		}

		wrote, err := e.encode(v.Index(i))
		if err != nil {
			return errors.Wrapf(err, "index %d", i)
		}

		if !wrote {
			e.WriteString("null")
		}
	}

	e.WriteByte(']')
	return nil
}

func (e *encodeState) writeString(s string) {
	raw, _ := json.Marshal(s)
	e.Write(raw)
}

func mapKeyString(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}

	return "", errors.Wrapf(ErrUnsupportedType, "map key %s", k.Type())
}

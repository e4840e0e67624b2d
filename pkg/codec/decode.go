package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

func parse(text []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Wrap(ErrFormat, "unexpected data after top-level value")
	}

	return node, nil
}

type decodeState struct {
	registry *Registry
}

func (d *decodeState) decode(node any, v reflect.Value) error {
	kind := v.Kind()

	if kind != reflect.Pointer && kind != reflect.Interface && v.CanAddr() && reflect.PointerTo(v.Type()).Implements(unmarshalerType) {
		if node == nil {
			v.SetZero()
			return nil
		}

		raw, err := json.Marshal(node)
		if err != nil {
			return errors.Wrapf(ErrFormat, "%s", err)
		}

		if err := v.Addr().Interface().(json.Unmarshaler).UnmarshalJSON(raw); err != nil {
			return errors.Wrapf(ErrFormat, "fail to unmarshal %s: %s", v.Type(), err)
		}

		return nil
	}

	if node == nil {
		switch kind {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			v.SetZero()
		}

		return nil
	}

	switch kind {
	case reflect.Interface:
		return d.decodeInterface(node, v)
	case reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		if err := d.decode(node, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
	case reflect.Struct:
		obj, ok := node.(map[string]any)
		if !ok {
			return mismatch(node, v)
		}

		for _, f := range fieldsOf(v.Type()) {
			raw, ok := obj[f.name]
			if !ok {
				continue
			}

			if err := d.decode(raw, v.FieldByIndex(f.index)); err != nil {
				return errors.Wrapf(err, "field %s", f.name)
			}
		}
	case reflect.Map:
		obj, ok := node.(map[string]any)
		if !ok {
			return mismatch(node, v)
		}

		t := v.Type()
		m := reflect.MakeMapWithSize(t, len(obj))
		for k, raw := range obj {
			key, err := parseMapKey(k, t.Key())
			if err != nil {
				return err
			}

			elem := reflect.New(t.Elem()).Elem()
			if err := d.decode(raw, elem); err != nil {
				return errors.Wrapf(err, "key %s", k)
			}
			m.SetMapIndex(key, elem)
		}
		v.Set(m)
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			s, ok := node.(string)
			if !ok {
				return mismatch(node, v)
			}

			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return errors.Wrapf(ErrFormat, "invalid base64: %s", err)
			}
			v.SetBytes(b)
			return nil
		}

		list, ok := node.([]any)
		if !ok {
			return mismatch(node, v)
		}

		s := reflect.MakeSlice(v.Type(), len(list), len(list))
		for i, raw := range list {
			if err := d.decode(raw, s.Index(i)); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
		v.Set(s)
	case reflect.Array:
		list, ok := node.([]any)
		if !ok {
			return mismatch(node, v)
		}

		v.SetZero()
		for i := 0; i < v.Len() && i < len(list); i++ {
			if err := d.decode(list[i], v.Index(i)); err != nil {
				return errors.Wrapf(err, "index %d", i)
			}
		}
	case reflect.Bool:
		b, ok := node.(bool)
		if !ok {
			return mismatch(node, v)
		}
		v.SetBool(b)
	case reflect.String:
		if n, ok := node.(json.Number); ok && v.Type() == numberType {
			v.SetString(n.String())
			return nil
		}

		s, ok := node.(string)
		if !ok {
			return mismatch(node, v)
		}
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := node.(json.Number)
		if !ok {
			return mismatch(node, v)
		}

		i, err := strconv.ParseInt(n.String(), 10, v.Type().Bits())
		if err != nil {
			return errors.Wrapf(ErrFormat, "invalid %s %s", v.Type(), n)
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := node.(json.Number)
		if !ok {
			return mismatch(node, v)
		}

		u, err := strconv.ParseUint(n.String(), 10, v.Type().Bits())
		if err != nil {
			return errors.Wrapf(ErrFormat, "invalid %s %s", v.Type(), n)
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		n, ok := node.(json.Number)
		if !ok {
			return mismatch(node, v)
		}

		f, err := strconv.ParseFloat(n.String(), v.Type().Bits())
		if err != nil {
			return errors.Wrapf(ErrFormat, "invalid %s %s", v.Type(), n)
		}
		v.SetFloat(f)
	default:
		return errors.Wrapf(ErrUnsupportedType, "%s", v.Type())
	}

	return nil
}

func (d *decodeState) decodeInterface(node any, v reflect.Value) error {
	obj, ok := node.(map[string]any)
	if !ok {
		return errors.Wrapf(ErrFormat, "polymorphic value for %s has no type discriminator", v.Type())
	}

	name, ok := obj[typeKey].(string)
	if !ok {
		return errors.Wrapf(ErrFormat, "polymorphic value for %s has no type discriminator", v.Type())
	}

	t, err := d.registry.TypeOf(name)
	if err != nil {
		return err
	}

	if !t.AssignableTo(v.Type()) {
		return errors.Wrapf(ErrTypeMismatch, "%s (%s) is not assignable to %s", name, t, v.Type())
	}

	elem := reflect.New(t).Elem()
	if err := d.decode(obj[valueKey], elem); err != nil {
		return errors.Wrapf(err, "value of %s", name)
	}

	v.Set(elem)
	return nil
}

func parseMapKey(k string, t reflect.Type) (reflect.Value, error) {
	key := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		key.SetString(k)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(k, 10, t.Bits())
		if err != nil {
			return key, errors.Wrapf(ErrFormat, "invalid map key %q for %s", k, t)
		}
		key.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(k, 10, t.Bits())
		if err != nil {
			return key, errors.Wrapf(ErrFormat, "invalid map key %q for %s", k, t)
		}
		key.SetUint(u)
	default:
		return key, errors.Wrapf(ErrUnsupportedType, "map key %s", t)
	}

	return key, nil
}

func mismatch(node any, v reflect.Value) error {
	return errors.Wrapf(ErrFormat, "cannot decode %s into %s", describe(node), v.Type())
}

func describe(node any) string {
	switch node.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	}

	return "null"
}

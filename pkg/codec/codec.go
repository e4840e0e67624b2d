// Package codec serializes values into the text and binary encodings used by
// save containers.
//
// The text encoding is indented JSON. Struct fields, maps and slices encode
// the way encoding/json shapes them, but every value held through an
// interface type is wrapped in an envelope carrying its registered type name:
//
//	{"$type": "Banana", "$value": {"Id": 420, "Name": "Banana"}}
//
// The outermost value is never wrapped; callers supply its type on decode.
// Pointer and map cycles are broken by dropping the back-edge: a struct field
// or map entry that points at a value still being encoded is omitted, and a
// list element is written as null.
//
// The binary encoding is the text encoding behind a uvarint length prefix.
package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
)

type Codec struct {
	registry *Registry
}

// New creates a Codec resolving type names through registry. A nil registry
// gets a fresh one with only the built-in names.
func New(registry *Registry) *Codec {
	if registry == nil {
		registry = NewRegistry()
	}

	return &Codec{registry: registry}
}

func (c *Codec) Registry() *Registry {
	return c.registry
}

func (c *Codec) EncodeText(v any) (string, error) {
	e := newEncodeState(c.registry)
	if _, err := e.encode(reflect.ValueOf(v)); err != nil {
		return "", errors.Wrap(err, "fail to encode value")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, e.Bytes(), "", "  "); err != nil {
		return "", errors.Wrap(err, "fail to indent encoded value")
	}

	return out.String(), nil
}

// DecodeText decodes text into target, which must be a non-nil pointer.
func (c *Codec) DecodeText(text string, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.Errorf("decode target must be a non-nil pointer, got %T", target)
	}

	node, err := parse([]byte(text))
	if err != nil {
		return err
	}

	d := &decodeState{registry: c.registry}
	return d.decode(node, v.Elem())
}

func (c *Codec) EncodeBinary(v any) ([]byte, error) {
	text, err := c.EncodeText(v)
	if err != nil {
		return nil, err
	}

	out := binary.AppendUvarint(make([]byte, 0, len(text)+binary.MaxVarintLen64), uint64(len(text)))
	return append(out, text...), nil
}

func (c *Codec) DecodeBinary(data []byte, target any) error {
	text, err := unwrapBinary(data)
	if err != nil {
		return err
	}

	return c.DecodeText(text, target)
}

func (c *Codec) Encode(v any, format Format) ([]byte, error) {
	switch format {
	case Text:
		text, err := c.EncodeText(v)
		return []byte(text), err
	case Binary:
		return c.EncodeBinary(v)
	}

	return nil, errors.Errorf("unknown format %s", format)
}

func (c *Codec) Decode(data []byte, format Format, target any) error {
	switch format {
	case Text:
		return c.DecodeText(string(data), target)
	case Binary:
		return c.DecodeBinary(data, target)
	}

	return errors.Errorf("unknown format %s", format)
}

// DecodeTextAs decodes text into a new T.
func DecodeTextAs[T any](c *Codec, text string) (T, error) {
	var v T
	err := c.DecodeText(text, &v)
	return v, err
}

// DecodeBinaryAs decodes data into a new T.
func DecodeBinaryAs[T any](c *Codec, data []byte) (T, error) {
	var v T
	err := c.DecodeBinary(data, &v)
	return v, err
}

// Sniff guesses the format of uncompressed data. Data is binary when it
// starts with a uvarint that exactly covers the rest of the input and the
// payload opens a JSON object; anything else is treated as text.
func Sniff(data []byte) Format {
	n, k := binary.Uvarint(data)
	if k > 0 && uint64(len(data)-k) == n && n > 0 && data[k] == '{' {
		return Binary
	}

	return Text
}

func unwrapBinary(data []byte) (string, error) {
	n, k := binary.Uvarint(data)
	if k <= 0 {
		return "", errors.Wrap(ErrFormat, "missing length prefix")
	}

	rest := data[k:]
	if uint64(len(rest)) < n {
		return "", errors.Wrapf(ErrFormat, "length prefix %d exceeds payload of %d bytes", n, len(rest))
	}

	return string(rest[:n]), nil
}

package codec

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format selects the encoding a container is persisted with.
type Format int

const (
	Text Format = iota
	Binary
)

func (f Format) String() string {
	switch f {
	case Text:
		return "Text"
	case Binary:
		return "Binary"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "json":
		return Text, nil
	case "binary":
		return Binary, nil
	}

	return Text, errors.Errorf("unknown format %q", s)
}

func (f Format) MarshalText() ([]byte, error) {
	if f != Text && f != Binary {
		return nil, errors.Errorf("unknown format %d", int(f))
	}

	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}

	*f = parsed
	return nil
}

func (f Format) MarshalJSON() ([]byte, error) {
	text, err := f.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(string(text))
}

func (f *Format) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(ErrFormat, "format must be a string")
	}

	return f.UnmarshalText([]byte(s))
}

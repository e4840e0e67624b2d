package container

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/compression"
)

// Marshal encodes c with its own Format, compressing when c.Compressed is
// set.
func (c *Container) Marshal(cd *codec.Codec) ([]byte, error) {
	data, err := cd.Encode(c, c.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to encode container as %s", c.Format)
	}

	if !c.Compressed {
		return data, nil
	}

	data, err = compression.Compress(data)
	return data, errors.Wrap(err, "fail to compress container")
}

// Unmarshal decodes a container, detecting compression and format from the
// bytes themselves.
func Unmarshal(cd *codec.Codec, data []byte) (*Container, error) {
	if compression.IsCompressed(data) {
		inflated, err := compression.Decompress(data)
		if err != nil {
			return nil, errors.Wrap(err, "fail to decompress container")
		}
		data = inflated
	}

	format := codec.Sniff(data)

	c := New()
	if err := cd.Decode(data, format, c); err != nil {
		return nil, errors.Wrapf(err, "fail to decode %s container", format)
	}

	if c.Data == nil {
		c.Data = make(map[string]any)
	}

	return c, nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

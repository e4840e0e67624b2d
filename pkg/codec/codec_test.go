package codec_test

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/savefile/internal/fixtures"
	"github.com/ergomake/savefile/pkg/codec"
)

func TestCodec_RoundTrip(t *testing.T) {
	c := codec.New(fixtures.Registry())

	values := map[string]any{
		"flat record":       fixtures.Item{Id: 1, Name: "Rock", Value: 3},
		"inherited fields":  fixtures.Banana(),
		"record of records": fixtures.Hero(),
		"polymorphic list":  fixtures.Backpack(),
	}

	for _, format := range []codec.Format{codec.Text, codec.Binary} {
		for name, v := range values {
			t.Run(format.String()+" "+name, func(t *testing.T) {
				data, err := c.Encode(v, format)
				require.NoError(t, err)

				switch want := v.(type) {
				case fixtures.Item:
					var got fixtures.Item
					require.NoError(t, c.Decode(data, format, &got))
					assert.Equal(t, want, got)
				case fixtures.Fruit:
					var got fixtures.Fruit
					require.NoError(t, c.Decode(data, format, &got))
					assert.Equal(t, want, got)
				case fixtures.Player:
					var got fixtures.Player
					require.NoError(t, c.Decode(data, format, &got))
					assert.Equal(t, want, got)
				case fixtures.Inventory:
					var got fixtures.Inventory
					require.NoError(t, c.Decode(data, format, &got))
					assert.Equal(t, want, got)
				}
			})
		}
	}
}

func TestCodec_EncodeText(t *testing.T) {
	c := codec.New(fixtures.Registry())

	t.Run("flattens embedded fields", func(t *testing.T) {
		text, err := c.EncodeText(fixtures.Banana())
		require.NoError(t, err)
		assert.JSONEq(t, `{"Id":420,"Name":"Banana","Value":69,"Weight":50}`, text)
	})

	t.Run("embeds discriminators for interface values", func(t *testing.T) {
		text, err := c.EncodeText(fixtures.Inventory{Owner: "Ada", Items: []fixtures.Describer{fixtures.Banana()}})
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"Owner": "Ada",
			"Items": [{"$type": "Fruit", "$value": {"Id":420,"Name":"Banana","Value":69,"Weight":50}}]
		}`, text)
	})

	t.Run("is indented", func(t *testing.T) {
		text, err := c.EncodeText(fixtures.Item{Id: 1})
		require.NoError(t, err)
		assert.Contains(t, text, "\n  \"Id\": 1")
	})

	t.Run("composes names for pointers slices and maps", func(t *testing.T) {
		var v any = map[string]any{
			"ptr":   &fixtures.Item{Id: 2},
			"list":  []fixtures.Fruit{fixtures.Banana()},
			"index": map[string]fixtures.Item{"a": {Id: 3}},
		}
		text, err := c.EncodeText(v)
		require.NoError(t, err)
		assert.Contains(t, text, `"$type": "*Item"`)
		assert.Contains(t, text, `"$type": "[]Fruit"`)
		assert.Contains(t, text, `"$type": "map[string]Item"`)

		got, err := codec.DecodeTextAs[map[string]any](c, text)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("breaks cycles by omitting back-edges", func(t *testing.T) {
		a := &fixtures.Node{Name: "a"}
		b := &fixtures.Node{Name: "b", Next: a}
		a.Next = b

		text, err := c.EncodeText(a)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Name":"a","Next":{"Name":"b"}}`, text)

		got, err := codec.DecodeTextAs[*fixtures.Node](c, text)
		require.NoError(t, err)
		assert.Equal(t, &fixtures.Node{Name: "a", Next: &fixtures.Node{Name: "b"}}, got)
	})

	t.Run("shared nodes that are not cycles encode twice", func(t *testing.T) {
		shared := &fixtures.Node{Name: "shared"}
		list := []*fixtures.Node{shared, shared}

		text, err := c.EncodeText(list)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"Name":"shared","Next":null},{"Name":"shared","Next":null}]`, text)
	})

	t.Run("errors on unregistered polymorphic type", func(t *testing.T) {
		type secret struct{ A int }
		_, err := c.EncodeText(map[string]any{"x": secret{A: 1}})
		assert.ErrorIs(t, err, codec.ErrUnregisteredType)
	})

	t.Run("errors on unsupported kinds", func(t *testing.T) {
		_, err := c.EncodeText(struct{ F func() }{F: func() {}})
		assert.ErrorIs(t, err, codec.ErrUnsupportedType)

		_, err = c.EncodeText(math.NaN())
		assert.ErrorIs(t, err, codec.ErrUnsupportedType)
	})
}

func TestCodec_DecodeText(t *testing.T) {
	c := codec.New(fixtures.Registry())

	t.Run("errors on malformed text", func(t *testing.T) {
		_, err := codec.DecodeTextAs[fixtures.Item](c, `{"Id": `)
		assert.ErrorIs(t, err, codec.ErrFormat)

		_, err = codec.DecodeTextAs[fixtures.Item](c, `{} {}`)
		assert.ErrorIs(t, err, codec.ErrFormat)

		_, err = codec.DecodeTextAs[fixtures.Item](c, ``)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("errors on shape mismatch", func(t *testing.T) {
		_, err := codec.DecodeTextAs[fixtures.Item](c, `{"Id": "four"}`)
		assert.ErrorIs(t, err, codec.ErrFormat)

		_, err = codec.DecodeTextAs[fixtures.Item](c, `{"Id": 1.5}`)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("errors on unknown discriminator", func(t *testing.T) {
		_, err := codec.DecodeTextAs[fixtures.Inventory](c, `{"Items": [{"$type": "Pear", "$value": {}}]}`)
		assert.ErrorIs(t, err, codec.ErrTypeMismatch)
	})

	t.Run("errors when discriminator does not fit the field", func(t *testing.T) {
		_, err := codec.DecodeTextAs[fixtures.Inventory](c, `{"Items": [{"$type": "Vector3", "$value": {}}]}`)
		assert.ErrorIs(t, err, codec.ErrTypeMismatch)
	})

	t.Run("errors when interface value lacks a discriminator", func(t *testing.T) {
		_, err := codec.DecodeTextAs[fixtures.Inventory](c, `{"Items": [{"Id": 1}]}`)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("preserves exact integers", func(t *testing.T) {
		type big struct {
			I int64
			U uint64
		}
		in := big{I: math.MinInt64, U: math.MaxUint64}

		text, err := c.EncodeText(in)
		require.NoError(t, err)

		got, err := codec.DecodeTextAs[big](c, text)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("ignores unknown fields", func(t *testing.T) {
		got, err := codec.DecodeTextAs[fixtures.Item](c, `{"Id": 5, "Color": "red"}`)
		require.NoError(t, err)
		assert.Equal(t, fixtures.Item{Id: 5}, got)
	})

	t.Run("rejects non-pointer targets", func(t *testing.T) {
		var item fixtures.Item
		assert.Error(t, c.DecodeText(`{}`, item))
	})
}

func TestCodec_JSONMarshalers(t *testing.T) {
	c := codec.New(nil)

	type stamped struct {
		At     time.Time
		Format codec.Format
	}
	in := stamped{At: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), Format: codec.Binary}

	text, err := c.EncodeText(in)
	require.NoError(t, err)
	assert.Contains(t, text, `"2024-03-01T12:30:00Z"`)
	assert.Contains(t, text, `"Binary"`)

	got, err := codec.DecodeTextAs[stamped](c, text)
	require.NoError(t, err)
	assert.True(t, in.At.Equal(got.At))
	assert.Equal(t, in.Format, got.Format)
}

// celsius marshals through pointer receivers only.
type celsius struct {
	Deg int
}

func (c *celsius) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.Itoa(c.Deg) + `C"`), nil
}

func (c *celsius) UnmarshalJSON(b []byte) error {
	deg, err := strconv.Atoi(strings.TrimSuffix(strings.Trim(string(b), `"`), "C"))
	if err != nil {
		return err
	}

	c.Deg = deg
	return nil
}

func TestCodec_PointerMarshalers(t *testing.T) {
	r := codec.NewRegistry()
	codec.MustRegister[celsius](r, "celsius")
	c := codec.New(r)

	type reading struct {
		Temp    celsius
		History []any
	}
	in := reading{Temp: celsius{Deg: 21}, History: []any{celsius{Deg: 19}}}

	t.Run("field held by value", func(t *testing.T) {
		text, err := c.EncodeText(in)
		require.NoError(t, err)
		assert.Contains(t, text, `"Temp": "21C"`)
		assert.Contains(t, text, `"$value": "19C"`)
		assert.NotContains(t, text, `"Deg"`)

		got, err := codec.DecodeTextAs[reading](c, text)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("top-level value", func(t *testing.T) {
		text, err := c.EncodeText(celsius{Deg: -4})
		require.NoError(t, err)
		assert.Equal(t, `"-4C"`, text)
	})
}

func TestCodec_Bytes(t *testing.T) {
	c := codec.New(nil)

	var in any = map[string]any{"blob": []byte{0, 1, 2, 255}, "n": 7}
	text, err := c.EncodeText(in)
	require.NoError(t, err)
	assert.Contains(t, text, `"$type": "bytes"`)

	got, err := codec.DecodeTextAs[map[string]any](c, text)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestCodec_Binary(t *testing.T) {
	c := codec.New(fixtures.Registry())

	t.Run("wraps the text encoding", func(t *testing.T) {
		text, err := c.EncodeText(fixtures.Banana())
		require.NoError(t, err)

		data, err := c.EncodeBinary(fixtures.Banana())
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(data), text))
		assert.Greater(t, len(data), len(text))
	})

	t.Run("errors on truncated payload", func(t *testing.T) {
		data, err := c.EncodeBinary(fixtures.Banana())
		require.NoError(t, err)

		_, err = codec.DecodeBinaryAs[fixtures.Fruit](c, data[:len(data)-3])
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("errors on empty input", func(t *testing.T) {
		_, err := codec.DecodeBinaryAs[fixtures.Fruit](c, nil)
		assert.ErrorIs(t, err, codec.ErrFormat)
	})
}

func TestSniff(t *testing.T) {
	c := codec.New(fixtures.Registry())

	text, err := c.Encode(fixtures.Hero(), codec.Text)
	require.NoError(t, err)
	assert.Equal(t, codec.Text, codec.Sniff(text))

	data, err := c.Encode(fixtures.Hero(), codec.Binary)
	require.NoError(t, err)
	assert.Equal(t, codec.Binary, codec.Sniff(data))

	short, err := c.Encode(fixtures.Item{}, codec.Binary)
	require.NoError(t, err)
	assert.Equal(t, codec.Binary, codec.Sniff(short))

	assert.Equal(t, codec.Text, codec.Sniff(nil))
}

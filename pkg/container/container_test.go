package container

import (
	"bytes"
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/savefile/internal/fixtures"
	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/compression"
)

func logContext(buf *bytes.Buffer) context.Context {
	logger := hclog.New(&hclog.LoggerOptions{Output: buf, Level: hclog.Trace})
	return hclog.WithContext(context.Background(), logger)
}

func TestContainer_Set(t *testing.T) {
	var logs bytes.Buffer
	ctx := logContext(&logs)
	c := New()

	c.Set(ctx, "a", 1)
	assert.Contains(t, logs.String(), "Key not in container, adding it")

	logs.Reset()
	c.Set(ctx, "a", 2)
	assert.Empty(t, logs.String())
	assert.Equal(t, 2, c.Get(ctx, "a"))
}

func TestContainer_Add(t *testing.T) {
	t.Run("inserts absent key", func(t *testing.T) {
		c := New()
		c.Add(context.Background(), "a", "first")
		assert.Equal(t, "first", c.Get(context.Background(), "a"))
	})

	t.Run("leaves existing key unchanged", func(t *testing.T) {
		var logs bytes.Buffer
		ctx := logContext(&logs)

		c := New()
		c.Set(ctx, "a", "first")
		c.Add(ctx, "a", "second")

		assert.Equal(t, "first", c.Get(ctx, "a"))
		assert.Equal(t, 1, c.Len())
		assert.Contains(t, logs.String(), ErrDuplicateKey.Error())
	})
}

func TestContainer_Remove(t *testing.T) {
	var logs bytes.Buffer
	ctx := logContext(&logs)

	c := New()
	c.Set(ctx, "a", 1)
	c.Remove(ctx, "a")
	assert.False(t, c.ContainsKey("a"))

	logs.Reset()
	c.Remove(ctx, "a")
	assert.Contains(t, logs.String(), "[WARN]")
	assert.Contains(t, logs.String(), "nothing to remove")
}

func TestContainer_Get(t *testing.T) {
	t.Run("missing key returns nil and logs", func(t *testing.T) {
		var logs bytes.Buffer
		ctx := logContext(&logs)

		c := New()
		assert.Nil(t, c.Get(ctx, "missing"))
		assert.Contains(t, logs.String(), "[ERROR]")
		assert.Contains(t, logs.String(), ErrKeyNotFound.Error())
	})

	t.Run("zero value container", func(t *testing.T) {
		var c Container
		assert.Nil(t, c.Get(context.Background(), "missing"))
		assert.False(t, c.ContainsKey("missing"))
		assert.Empty(t, c.Keys())

		c.Set(context.Background(), "k", true)
		assert.True(t, c.ContainsKey("k"))
	})
}

func TestGetAs(t *testing.T) {
	ctx := context.Background()
	c := New()
	c.Set(ctx, "banana", fixtures.Banana())

	t.Run("returns typed value", func(t *testing.T) {
		assert.Equal(t, fixtures.Banana(), GetAs[fixtures.Fruit](ctx, c, "banana"))
	})

	t.Run("returns zero on mismatch", func(t *testing.T) {
		var logs bytes.Buffer
		got := GetAs[fixtures.Weapon](logContext(&logs), c, "banana")
		assert.Equal(t, fixtures.Weapon{}, got)
		assert.Contains(t, logs.String(), "[WARN]")
		assert.Contains(t, logs.String(), "fixtures.Fruit")
	})

	t.Run("interface targets accept implementations", func(t *testing.T) {
		got := GetAs[fixtures.Describer](ctx, c, "banana")
		require.NotNil(t, got)
		assert.Equal(t, "Banana", got.Describe())
	})

	t.Run("returns zero on missing key", func(t *testing.T) {
		assert.Equal(t, 0, GetAs[int](ctx, c, "missing"))
	})
}

func TestContainer_Keys(t *testing.T) {
	ctx := context.Background()
	c := New()
	c.Set(ctx, "b", 1)
	c.Set(ctx, "a", 2)
	c.Set(ctx, "c", 3)

	assert.Equal(t, []string{"a", "b", "c"}, c.Keys())
}

func TestContainer_SetMetadata(t *testing.T) {
	c := New()
	c.SetMetadata(true, codec.Binary)
	assert.True(t, c.Compressed)
	assert.Equal(t, codec.Binary, c.Format)
}

func TestContainer_Marshal(t *testing.T) {
	ctx := context.Background()
	cd := codec.New(fixtures.Registry())

	for _, tc := range []struct {
		format   codec.Format
		compress bool
	}{
		{codec.Text, false},
		{codec.Text, true},
		{codec.Binary, false},
		{codec.Binary, true},
	} {
		t.Run(tc.format.String(), func(t *testing.T) {
			c := New()
			c.Set(ctx, "banana", fixtures.Banana())
			c.Set(ctx, "hero", fixtures.Hero())
			c.Set(ctx, "backpack", fixtures.Backpack())
			c.Set(ctx, "count", 3)
			c.SetMetadata(tc.compress, tc.format)

			data, err := c.Marshal(cd)
			require.NoError(t, err)
			assert.Equal(t, tc.compress, compression.IsCompressed(data))

			got, err := Unmarshal(cd, data)
			require.NoError(t, err)
			assert.Equal(t, c, got)
		})
	}
}

func TestContainer_TextLayout(t *testing.T) {
	cd := codec.New(fixtures.Registry())

	c := New()
	c.Set(context.Background(), "BananaKey", fixtures.Banana())

	data, err := c.Marshal(cd)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"format": "Text",
		"compressed": false,
		"data": {
			"BananaKey": {"$type": "Fruit", "$value": {"Id": 420, "Name": "Banana", "Value": 69, "Weight": 50}}
		}
	}`, string(data))
}

func TestUnmarshal(t *testing.T) {
	cd := codec.New(fixtures.Registry())

	t.Run("errors on garbage", func(t *testing.T) {
		_, err := Unmarshal(cd, []byte("not a container"))
		assert.ErrorIs(t, err, codec.ErrFormat)
	})

	t.Run("errors on corrupt compressed data", func(t *testing.T) {
		_, err := Unmarshal(cd, []byte{0x1f, 0x8b, 0x00, 0x01})
		assert.ErrorIs(t, err, compression.ErrCorruptData)
	})

	t.Run("errors on unknown type", func(t *testing.T) {
		_, err := Unmarshal(cd, []byte(`{"format":"Text","compressed":false,"data":{"k":{"$type":"Pear","$value":{}}}}`))
		assert.ErrorIs(t, err, codec.ErrTypeMismatch)
	})

	t.Run("null data becomes empty", func(t *testing.T) {
		c, err := Unmarshal(cd, []byte(`{"format":"Binary","compressed":true,"data":null}`))
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
		assert.Equal(t, codec.Binary, c.Format)
		assert.True(t, c.Compressed)
	})
}

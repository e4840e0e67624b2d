package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	t.Run("round trips exactly", func(t *testing.T) {
		for _, input := range [][]byte{
			[]byte("hello hello hello hello"),
			{},
			{0x1f, 0x8b, 0x00, 0xff},
		} {
			compressed, err := Compress(input)
			require.NoError(t, err)
			assert.True(t, IsCompressed(compressed))

			out, err := Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, len(input), len(out))
			assert.Equal(t, string(input), string(out))
		}
	})

	t.Run("compressing twice stays detectable", func(t *testing.T) {
		once, err := Compress([]byte("payload"))
		require.NoError(t, err)

		twice, err := Compress(once)
		require.NoError(t, err)
		assert.True(t, IsCompressed(twice))

		inner, err := Decompress(twice)
		require.NoError(t, err)
		assert.Equal(t, once, inner)
	})
}

func TestDecompress(t *testing.T) {
	t.Run("errors on plain bytes", func(t *testing.T) {
		_, err := Decompress([]byte(`{"format":"Text"}`))
		assert.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("errors on truncated stream", func(t *testing.T) {
		compressed, err := Compress([]byte("some longer payload that will be cut"))
		require.NoError(t, err)

		_, err = Decompress(compressed[:len(compressed)/2])
		assert.ErrorIs(t, err, ErrCorruptData)
	})
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed([]byte{0x1f, 0x8b}))
	assert.False(t, IsCompressed([]byte{0x1f}))
	assert.False(t, IsCompressed(nil))
	assert.False(t, IsCompressed([]byte("{}")))
}

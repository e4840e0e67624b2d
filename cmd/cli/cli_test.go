package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/savefile"
)

func TestParseValue(t *testing.T) {
	t.Run("keeps integers exact", func(t *testing.T) {
		v, err := parseValue(`9007199254740993`)
		require.NoError(t, err)
		assert.Equal(t, json.Number("9007199254740993"), v)
	})

	t.Run("objects and lists", func(t *testing.T) {
		v, err := parseValue(`{"name": "Banana", "tags": ["yellow", true]}`)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Banana", "tags": []any{"yellow", true}}, v)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseValue(`{"name"`)
		assert.Error(t, err)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := parseValue(`1 2`)
		assert.Error(t, err)
	})
}

func TestSettingsFromFlags(t *testing.T) {
	defaults := savefile.Settings{Location: savefile.PersistentPath, Format: codec.Text, Compress: true}

	t.Run("unset flags keep defaults", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		addSettingsFlags(flags)
		require.NoError(t, flags.Parse(nil))

		s, err := settingsFromFlags(flags, savefile.KeyValueStore, defaults)
		require.NoError(t, err)
		assert.Equal(t, savefile.Settings{Location: savefile.KeyValueStore, Format: codec.Text, Compress: true}, *s)
	})

	t.Run("set flags override", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		addSettingsFlags(flags)
		require.NoError(t, flags.Parse([]string{"--format", "binary", "--compress=false"}))

		s, err := settingsFromFlags(flags, savefile.DefaultLocation, defaults)
		require.NoError(t, err)
		assert.Equal(t, savefile.Settings{Location: savefile.DefaultLocation, Format: codec.Binary}, *s)
	})

	t.Run("bad format", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		addSettingsFlags(flags)
		require.NoError(t, flags.Parse([]string{"--format", "xml"}))

		_, err := settingsFromFlags(flags, savefile.DefaultLocation, defaults)
		assert.Error(t, err)
	})
}

func TestPutGetKeys(t *testing.T) {
	ctx := context.Background()
	store := savefile.New(savefile.WithPaths(savefile.Paths{Persistent: t.TempDir()}))
	settings := &savefile.Settings{Location: savefile.PersistentPath, Format: codec.Binary, Compress: true}

	require.NoError(t, runPut(ctx, store, "slot.sav", "level", `12`, settings))
	require.NoError(t, runPut(ctx, store, "slot.sav", "player", `{"name": "Hero", "hp": 100}`, settings))

	var out bytes.Buffer
	require.NoError(t, runGet(ctx, store, "slot.sav", "player", savefile.PersistentPath, &out))
	assert.JSONEq(t, `{"name": "Hero", "hp": 100}`, out.String())

	out.Reset()
	require.NoError(t, runKeys(ctx, store, "slot.sav", savefile.PersistentPath, &out))
	assert.Equal(t, "level\nplayer\n", out.String())

	err := runGet(ctx, store, "slot.sav", "missing", savefile.PersistentPath, &out)
	assert.ErrorContains(t, err, "not found")

	err = runPut(ctx, store, "slot.sav", "bad", `nope`, settings)
	assert.Error(t, err)
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/savefile/pkg/savefile"
)

func init() {
	addSettingsFlags(putCmd.Flags())
	addSettingsFlags(moveCmd.Flags())
	moveCmd.Flags().String("to-location", "", "location to move the save file to, defaults to the configured location")

	rootCmd.AddCommand(putCmd, getCmd, keysCmd, deleteKeyCmd, deleteFileCmd, moveCmd)
}

var putCmd = &cobra.Command{
	Use:   "put <locator> <key> <json-value>",
	Args:  cobra.ExactArgs(3),
	Short: "stores a value under a key",
	Long: `The put command stores a JSON value under a key of a save file.

The save file is created when it does not exist. The whole file is rewritten
with the given --format and --compress settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		settings := mustSettings(cmd, getLocation(cmd, "location"), store.Defaults())
		if err := runPut(ctx, store, args[0], args[1], args[2], settings); err != nil {
			closeFn()
			fail(err)
		}
	},
}

func runPut(ctx context.Context, store *savefile.Store, locator, key, raw string, settings *savefile.Settings) error {
	value, err := parseValue(raw)
	if err != nil {
		return err
	}

	return errors.Wrapf(store.Save(ctx, key, value, locator, settings), "fail to save %s", key)
}

var getCmd = &cobra.Command{
	Use:   "get <locator> <key>",
	Args:  cobra.ExactArgs(2),
	Short: "prints the value stored under a key",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		if err := runGet(ctx, store, args[0], args[1], getLocation(cmd, "location"), os.Stdout); err != nil {
			closeFn()
			fail(err)
		}
	},
}

func runGet(ctx context.Context, store *savefile.Store, locator, key string, location savefile.Location, out io.Writer) error {
	found, err := store.ContainsKey(ctx, key, locator, location)
	if err != nil {
		return errors.Wrapf(err, "fail to load %s", locator)
	}

	if !found {
		return errors.Errorf("key %s not found in %s", key, locator)
	}

	value, err := store.Load(ctx, key, locator, location)
	if err != nil {
		return errors.Wrapf(err, "fail to load %s", key)
	}

	return printValue(out, value)
}

var keysCmd = &cobra.Command{
	Use:   "keys <locator>",
	Args:  cobra.ExactArgs(1),
	Short: "lists the keys of a save file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		if err := runKeys(ctx, store, args[0], getLocation(cmd, "location"), os.Stdout); err != nil {
			closeFn()
			fail(err)
		}
	},
}

func runKeys(ctx context.Context, store *savefile.Store, locator string, location savefile.Location, out io.Writer) error {
	keys, err := store.Keys(ctx, locator, location)
	if err != nil {
		return errors.Wrapf(err, "fail to list keys of %s", locator)
	}

	if len(keys) == 0 {
		fmt.Fprintf(out, "No keys in %s\n", locator)
		return nil
	}

	for _, k := range keys {
		fmt.Fprintln(out, k)
	}

	return nil
}

var deleteKeyCmd = &cobra.Command{
	Use:   "delete-key <locator> <key>",
	Args:  cobra.ExactArgs(2),
	Short: "removes a key from a save file",
	Long: `The delete-key command removes a key from a save file.

The save file is rewritten with the format and compression it was stored with.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		if err := store.DeleteKey(ctx, args[1], args[0], getLocation(cmd, "location")); err != nil {
			closeFn()
			fail(errors.Wrapf(err, "fail to delete key %s", args[1]))
		}
	},
}

var deleteFileCmd = &cobra.Command{
	Use:   "delete-file <locator>",
	Args:  cobra.ExactArgs(1),
	Short: "deletes a save file",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		if err := store.DeleteFile(ctx, args[0], getLocation(cmd, "location")); err != nil {
			closeFn()
			fail(errors.Wrapf(err, "fail to delete %s", args[0]))
		}
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <old-locator> <new-locator>",
	Args:  cobra.ExactArgs(2),
	Short: "moves a save file to another locator or location",
	Long: `The move command rewrites a save file at a new locator and deletes the old one.

The move is not atomic. If writing the new file fails after the old one was
deleted, the save file is lost.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := newContext()
		store, closeFn := openStore(ctx, cmd)
		defer closeFn()

		settings := mustSettings(cmd, getLocation(cmd, "to-location"), store.Defaults())
		if err := store.MoveFile(ctx, args[0], getLocation(cmd, "location"), args[1], settings); err != nil {
			closeFn()
			fail(errors.Wrapf(err, "fail to move %s to %s", args[0], args[1]))
		}
	},
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/savefile/internal/sfconfig"
	"github.com/ergomake/savefile/pkg/savefile"
)

var rootCmd = &cobra.Command{
	Use:   "savefile",
	Short: "savefile reads and writes keyed save files",
	Long: `savefile reads and writes keyed save files.

Every save file is a container of typed values stored under string keys. The
container lives at a locator inside one of the configured locations:
PersistentPath, StreamingPath, AbsolutePath, KeyValueStore, ResourcesReadOnly
or Bucket. Locations are configured in ~/.savefile/config.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to the config file (default ~/.savefile/config)")
	rootCmd.PersistentFlags().StringP("location", "l", "", "location of the save file, defaults to the configured location")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newContext() context.Context {
	logger := hclog.Default()
	logLevel := hclog.LevelFromString(os.Getenv("SAVEFILE_LOG"))
	if logLevel != hclog.NoLevel {
		logger.SetLevel(logLevel)
	}

	return hclog.WithContext(context.Background(), logger)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// openStore loads the config named by --config and builds a store from it.
func openStore(ctx context.Context, cmd *cobra.Command) (*savefile.Store, func() error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		fail(errors.Wrap(err, "fail to get --config flag, this is a bug in savefile"))
	}

	cfg, err := sfconfig.Load(ctx, cfgPath)
	if err != nil {
		fail(errors.Wrap(err, "fail to load config"))
	}

	store, closeFn, err := cfg.NewStore(ctx, nil)
	if err != nil {
		fail(errors.Wrap(err, "fail to open store"))
	}

	return store, closeFn
}

func getLocation(cmd *cobra.Command, flag string) savefile.Location {
	raw, err := cmd.Flags().GetString(flag)
	if err != nil {
		fail(errors.Wrapf(err, "fail to get --%s flag, this is a bug in savefile", flag))
	}

	if raw == "" {
		return savefile.DefaultLocation
	}

	location, err := savefile.ParseLocation(raw)
	if err != nil {
		fail(err)
	}

	return location
}

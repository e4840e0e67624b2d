package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ergomake/savefile/pkg/codec"
	"github.com/ergomake/savefile/pkg/savefile"
)

func addSettingsFlags(flags *pflag.FlagSet) {
	flags.String("format", "", "encoding of the written save file: text or binary")
	flags.Bool("compress", false, "gzip the written save file")
}

// settingsFromFlags overlays the --format and --compress flags that were set
// on defaults.
func settingsFromFlags(flags *pflag.FlagSet, location savefile.Location, defaults savefile.Settings) (*savefile.Settings, error) {
	settings := defaults
	settings.Location = location

	if flags.Changed("format") {
		raw, err := flags.GetString("format")
		if err != nil {
			return nil, errors.Wrap(err, "fail to get --format flag")
		}

		format, err := codec.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		settings.Format = format
	}

	if flags.Changed("compress") {
		compress, err := flags.GetBool("compress")
		if err != nil {
			return nil, errors.Wrap(err, "fail to get --compress flag")
		}
		settings.Compress = compress
	}

	return &settings, nil
}

func mustSettings(cmd *cobra.Command, location savefile.Location, defaults savefile.Settings) *savefile.Settings {
	settings, err := settingsFromFlags(cmd.Flags(), location, defaults)
	if err != nil {
		fail(err)
	}

	return settings
}

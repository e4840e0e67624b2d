package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	revision   = "unknown"
	lastCommit = ""
)

// SetVersionInfo records the build information printed by the version
// command.
func SetVersionInfo(v, rev, commit string) {
	version = v
	revision = rev
	lastCommit = commit
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints the savefile version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "savefile %s (%s)", version, revision)
		if lastCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " built from a commit of %s", lastCommit)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}

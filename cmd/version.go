package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, stamped at release time:
//
//	go build -ldflags "-X github.com/MyCarrier-DevOps/go-gitbridge/cmd.Version=v0.3.0 \
//	  -X github.com/MyCarrier-DevOps/go-gitbridge/cmd.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/MyCarrier-DevOps/go-gitbridge/cmd.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gitbridge version and build metadata",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "gitbridge %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}

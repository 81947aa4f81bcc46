package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utensils/fig/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fig %s (commit %s, built %s)\n", build.Version, build.Commit, build.BuildDate)
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(versionCmd)
}

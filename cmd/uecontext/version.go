package main

import (
	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/internal/index"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("uecontext version %s\n", version)
		cmd.Printf("  build time:    %s\n", buildTime)
		cmd.Printf("  sqlite driver: %s (%s build)\n", index.DriverName, index.BuildMode)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

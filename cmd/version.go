package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaymon/relaymon/internal/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("relaymon", version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

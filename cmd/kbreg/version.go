package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentchanti/kbregistry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kbreg",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kbreg version %s\n", kbregistry.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

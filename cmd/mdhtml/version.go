package main

import (
	"fmt"

	"github.com/spf13/cobra"
	markdown "github.com/tehbilly/intellij-markdown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mdhtml",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mdhtml version %s\n", markdown.Version().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

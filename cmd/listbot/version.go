package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/listbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of listbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "listbot version %s\n", strings.TrimSpace(listbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

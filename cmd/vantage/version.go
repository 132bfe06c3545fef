package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/vantage"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vantage",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vantage version %s\n", strings.TrimSpace(vantage.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

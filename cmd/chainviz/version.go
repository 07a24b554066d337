package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/chainviz"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chainviz",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chainviz version %s\n", strings.TrimSpace(chainviz.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

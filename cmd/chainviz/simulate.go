package main

import (
	"github.com/aretw0/chainviz/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <model>",
	Short: "Run the chain without rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		steps, _ := cmd.Flags().GetInt("steps")
		asJSON, _ := cmd.Flags().GetBool("json")

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		return cli.HandleExecutionError(cli.RunSimulate(sc, app, args[0], steps, asJSON, cmd.OutOrStdout()))
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntP("steps", "n", 100, "Number of steps")
	simulateCmd.Flags().Bool("json", false, "Print the run as JSON")
}

package main

import (
	"github.com/aretw0/chainviz/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model>",
	Short: "Export the chain graph",
	Long: `Prints the model as Graphviz DOT (default), a Mermaid diagram, or the JSON/YAML
document. With --steps the chain is advanced first and the visited states are marked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		format, _ := cmd.Flags().GetString("format")
		steps, _ := cmd.Flags().GetInt("steps")
		return cli.RunGraph(app, args[0], format, steps, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "dot", "Output format: dot, mermaid, json or yaml")
	graphCmd.Flags().IntP("steps", "n", 0, "Steps to simulate before exporting")
}

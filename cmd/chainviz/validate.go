package main

import (
	"github.com/aretw0/chainviz/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model>",
	Short: "Check the chain for consistency",
	Long: `Loads the model, which rejects invalid probabilities and undeclared states, and
reports unreachable and absorbing states and the communicating classes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		strict, _ := cmd.Flags().GetBool("strict")
		asJSON, _ := cmd.Flags().GetBool("json")
		return cli.RunValidate(app, args[0], strict, asJSON, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail when states are unreachable")
	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/chainviz/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chainviz",
	Short: "chainviz simulates Markov chains and animates them",
	Long: `chainviz loads a Markov chain from a JSON or YAML document, simulates it and
renders every step as a Graphviz frame of an animated GIF.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "chainviz.yaml", "Configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error or off")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Random seed for reproducible runs")
}

// newApp builds the application from the persistent flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	opts := cli.Options{}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.DotenvPath, _ = cmd.Flags().GetString("env-file")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts.Seed = &seed
	}
	return cli.NewApp(cmd.Context(), opts)
}

package main

import (
	"path/filepath"
	"strings"

	"github.com/aretw0/chainviz/internal/cli"
	"github.com/spf13/cobra"
)

var gifCmd = &cobra.Command{
	Use:   "gif <model>",
	Short: "Render an animated GIF of a simulation",
	Long: `Simulates the model and renders one Graphviz frame per step, then assembles the
frames into an animated GIF. Requires dot and magick (see tools.yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := cli.GifOptions{Model: args[0]}
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Iterations, _ = cmd.Flags().GetInt("iterations")
		opts.StatesPerSecond, _ = cmd.Flags().GetFloat64("rate")
		opts.KeepFrames, _ = cmd.Flags().GetBool("keep-frames")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		if opts.Output == "" {
			opts.Output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".gif"
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		return cli.HandleExecutionError(cli.RunGif(sc, app, opts, cmd.OutOrStdout()))
	},
}

func init() {
	rootCmd.AddCommand(gifCmd)
	gifCmd.Flags().StringP("output", "o", "", "Output file (default: <model>.gif)")
	gifCmd.Flags().IntP("iterations", "n", 0, "Number of frames (default from config)")
	gifCmd.Flags().Float64P("rate", "r", 0, "States per second (default from config)")
	gifCmd.Flags().Bool("keep-frames", false, "Keep the rendered frames")
	gifCmd.Flags().BoolP("quiet", "q", false, "Suppress output")
}

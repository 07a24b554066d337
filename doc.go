/*
Package chainviz simulates discrete-time Markov chains and animates them.

A chain is a set of named states with probability-weighted transitions. Every
step draws a random number and either follows one of the current state's
transitions or stays put. chainviz records the visited states and can
serialize each step as a Graphviz DOT graph, which is then rasterized and
assembled into an animated GIF by external tools (Graphviz dot and
ImageMagick by default).

# Usage

Models are usually loaded from a JSON or YAML document:

	{"model": {"markov": {"state_A": {"B": 0.5}, "state_B": {"A": 1}}, "start": "A"}}

and animated through the Engine:

	engine := chainviz.New(chainviz.WithLogger(logger))
	model, err := engine.Load("weather.yaml")
	if err != nil {
		log.Fatal(err)
	}
	res, err := engine.Animate(ctx, model, animation.Settings{
		Iterations:      100,
		StatesPerSecond: 2,
		Output:          "weather.gif",
	})

Models can also be assembled in code with the dsl package, or from
markov.State values directly.

# Packages

  - pkg/markov: states, transitions, the model and DOT serialization.
  - pkg/definition: the JSON/YAML document format.
  - pkg/dsl: a fluent builder.
  - pkg/analysis: reachability and absorbing-state reports.
  - pkg/animation: the frame generation loop.
  - pkg/adapters: process (dot/magick), memory and redis run stores, http API.
*/
package chainviz

/*
Package animation drives the frame loop that turns a Markov model into an
animated image.

For every iteration the Generator serializes the model, hands the description
to a ports.FrameRenderer and advances the model one step. When all frames are
written, a ports.Animator assembles them. The Generator always works on a
Clone of the model, because serialization resets display attributes.

	gen := animation.NewGenerator(
		process.NewDotRenderer(cfg.Renderer),
		process.NewMagickAnimator(cfg.Animator, ""),
		animation.WithLogger(logger),
	)
	res, err := gen.Generate(ctx, model, animation.Settings{
		Iterations:      100,
		StatesPerSecond: 4,
		Output:          "chain.gif",
	})
*/
package animation

/*
Package dsl provides a fluent builder for constructing Markov models in Go
instead of loading them from JSON or YAML.

Example usage:

	m, err := dsl.New().
		State("Active").To("Disabled", 0.5).To("Dead", 0.02).
		State("Disabled").To("Active", 0.5).
		State("Dead").
		Start("Active").
		Build()

States are created on first mention, either through State or as the target of
To, and keep that order in the model. Validation errors are collected and
returned by Build.
*/
package dsl

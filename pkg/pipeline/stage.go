// Package pipeline provides the staged processing used by the thumbs command.
package pipeline

import (
	"context"
	"time"
)

// Stage represents a processing stage in the pipeline.
// Each stage takes an input and produces an output.
type Stage[In, Out any] interface {
	// Execute runs the stage with the given input and returns the output.
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc is a function adapter for Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage interface.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Observe wraps stage so that done is called after every Execute with the
// elapsed time and the stage's error. A nil done returns stage unchanged.
func Observe[In, Out any](stage Stage[In, Out], done func(elapsed time.Duration, err error)) Stage[In, Out] {
	if done == nil {
		return stage
	}
	return StageFunc[In, Out](func(ctx context.Context, input In) (Out, error) {
		start := time.Now()
		out, err := stage.Execute(ctx, input)
		done(time.Since(start), err)
		return out, err
	})
}

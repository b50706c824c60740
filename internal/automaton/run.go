package automaton

import "github.com/pingcap/errors"

// DefaultMaxSteps bounds pushdown and Turing machine runs.
const DefaultMaxSteps = 1000

var (
	// ErrStepLimit is returned by a Turing machine that did not halt
	// within its step budget.
	ErrStepLimit = errors.New("step limit reached")
	// ErrInvalidInput marks a word with symbols the machine cannot read.
	ErrInvalidInput = errors.New("invalid input word")
)

type runOptions struct {
	maxSteps int
}

type RunOption func(*runOptions)

// WithMaxSteps sets the step budget of a run. Values <= 0 keep
// DefaultMaxSteps.
func WithMaxSteps(n int) RunOption {
	return func(o *runOptions) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

func newRunOptions(opts []RunOption) runOptions {
	o := runOptions{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

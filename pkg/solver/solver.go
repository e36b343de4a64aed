// Package solver provides derivative-free bounded scalar minimization.
//
// Minimize runs a golden-section search over a closed interval. For a
// unimodal objective the returned point is within the configured
// tolerance of the interval's true minimizer. The search is
// deterministic for fixed inputs and options.
package solver

import (
	"errors"
	"fmt"
	"math"

	"econmodels/pkg/constants"
	"econmodels/pkg/mathutil"
)

// ErrNoConvergence indicates the search exhausted its iteration budget
// before the bracketing interval shrank below the tolerance.
var ErrNoConvergence = errors.New("solver: did not converge within iteration budget")

// ErrInvalidBounds indicates a malformed search interval.
var ErrInvalidBounds = errors.New("solver: invalid bounds")

// invPhi is the inverse golden ratio, the interval reduction factor of
// the golden-section search.
var invPhi = (math.Sqrt(5) - 1) / 2

// Options controls the termination of the bounded search.
type Options struct {
	// Tolerance is the bracketing interval width at which the search
	// stops. Zero or negative selects the default.
	Tolerance float64 `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	// MaxIterations caps the number of interval reductions. Zero or
	// negative selects the default.
	MaxIterations int `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// Normalize applies defaults for unset options.
func (o *Options) Normalize() {
	if o.Tolerance <= 0 {
		o.Tolerance = constants.DefaultSolverTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = constants.DefaultMaxIterations
	}
}

// Result captures the outcome of a bounded minimization.
type Result struct {
	// X is the approximate minimizer.
	X float64
	// F is the objective value at X.
	F float64
	// Iterations is the number of interval reductions performed.
	Iterations int
	// Converged reports whether the interval shrank below tolerance.
	Converged bool
}

// Minimize finds the minimizer of f over [lower, upper] by
// golden-section search. A non-converged search returns the best
// iterate alongside ErrNoConvergence.
func Minimize(f func(float64) float64, lower, upper float64, opts Options) (Result, error) {
	if f == nil {
		return Result{}, errors.New("solver: objective cannot be nil")
	}
	if !mathutil.IsFinite(lower) || !mathutil.IsFinite(upper) {
		return Result{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, lower, upper)
	}
	if lower > upper {
		return Result{}, fmt.Errorf("%w: lower %v exceeds upper %v", ErrInvalidBounds, lower, upper)
	}

	opts.Normalize()

	a, b := lower, upper
	if b-a <= opts.Tolerance {
		x := a + (b-a)/2
		return Result{X: x, F: f(x), Converged: true}, nil
	}

	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc := f(c)
	fd := f(d)

	iterations := 0
	for iterations < opts.MaxIterations && b-a > opts.Tolerance {
		if fc < fd {
			b = d
			d = c
			fd = fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a = c
			c = d
			fc = fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
		iterations++
	}

	x := a + (b-a)/2
	result := Result{
		X:          x,
		F:          f(x),
		Iterations: iterations,
		Converged:  b-a <= opts.Tolerance,
	}
	if !result.Converged {
		return result, fmt.Errorf("%w: interval width %v after %d iterations (tolerance %v)",
			ErrNoConvergence, b-a, iterations, opts.Tolerance)
	}
	return result, nil
}

// Package household implements the household utility-maximization
// model: a Cobb-Douglas household splits cash-on-hand between
// consumption and housing, where housing carries the ownership cost
// defined by a taxmodel.Schedule.
package household

import (
	"errors"
	"fmt"
	"math"

	"econmodels/pkg/mathutil"
	"econmodels/pkg/solver"
	"econmodels/pkg/taxmodel"
)

var (
	// ErrNegativeBudget indicates a household budget below zero.
	ErrNegativeBudget = errors.New("household: budget must be non-negative")

	// ErrInvalidPreference indicates a housing preference outside (0,1).
	ErrInvalidPreference = errors.New("household: preference must be in (0,1)")

	// ErrEmptyPopulation indicates an aggregation over zero households.
	ErrEmptyPopulation = errors.New("household: population is empty")
)

// Result holds the utility-maximizing allocation for one household.
type Result struct {
	// Consumption is the optimal non-housing consumption c*.
	Consumption float64
	// Housing is the optimal house price h*.
	Housing float64
	// Utility is the Cobb-Douglas utility at the optimum.
	Utility float64
	// Iterations is the number of solver iterations used.
	Iterations int
	// Converged reports whether the bounded search met its tolerance.
	Converged bool
}

// Utility evaluates the Cobb-Douglas utility c^(1-phi) * h^phi.
// Callers should avoid exact-zero arguments; 0^0 follows math.Pow.
func Utility(consumption, housing, phi float64) float64 {
	return math.Pow(consumption, 1-phi) * math.Pow(housing, phi)
}

// Optimize maximizes utility subject to the budget constraint
// c = budget - TotalCost(h). The constraint reduces the problem to a
// one-dimensional search over h in [0, HousePrice(budget)]: the upper
// bound is the house exhausting the whole budget on ownership cost.
func Optimize(phi, budget float64, schedule taxmodel.Schedule, opts solver.Options) (Result, error) {
	if err := schedule.Validate(); err != nil {
		return Result{}, err
	}
	if !mathutil.IsFinite(phi) || phi <= 0 || phi >= 1 {
		return Result{}, fmt.Errorf("%w: got %v", ErrInvalidPreference, phi)
	}
	if !mathutil.IsFinite(budget) || budget < 0 {
		return Result{}, fmt.Errorf("%w: got %v", ErrNegativeBudget, budget)
	}

	upper, err := schedule.HousePrice(budget)
	if err != nil {
		return Result{}, err
	}

	objective := func(h float64) float64 {
		cost, costErr := schedule.TotalCost(h)
		if costErr != nil {
			return math.Inf(1)
		}
		c := budget - cost
		if c < 0 {
			// Rounding at the upper edge of the bracket.
			c = 0
		}
		return -Utility(c, h, phi)
	}

	res, err := solver.Minimize(objective, 0, upper, opts)
	if err != nil {
		return Result{}, fmt.Errorf("household: optimizing budget %v: %w", budget, err)
	}

	housing := res.X
	cost, err := schedule.TotalCost(housing)
	if err != nil {
		return Result{}, err
	}
	consumption := budget - cost
	if consumption < 0 {
		consumption = 0
	}

	return Result{
		Consumption: consumption,
		Housing:     housing,
		Utility:     Utility(consumption, housing, phi),
		Iterations:  res.Iterations,
		Converged:   res.Converged,
	}, nil
}

// FormatResult renders a single optimization the way the course sheets
// summarize it: optimal house value, consumption, housing spend, and
// utility.
func FormatResult(res Result, schedule taxmodel.Schedule) string {
	cost, err := schedule.TotalCost(res.Housing)
	if err != nil {
		cost = math.NaN()
	}
	return fmt.Sprintf(
		"Optimal house value:\nh = %.4f\n\n"+
			"Optimal consumption:\nc = %.4f\n\n"+
			"To be spent on housing:\ntau = %.4f\n\n"+
			"Maximum utility:\nu = %.4f",
		res.Housing, res.Consumption, cost, res.Utility)
}

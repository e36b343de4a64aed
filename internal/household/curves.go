package household

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"econmodels/pkg/solver"
	"econmodels/pkg/taxmodel"
)

// Curves holds the optimal policy functions sampled on a budget grid,
// ready for tabulation or charting.
type Curves struct {
	Budgets     []float64
	Consumption []float64
	Housing     []float64
}

// SamplePolicyCurves evaluates the optimal consumption and housing
// choices over n evenly spaced budgets in [low, high].
func SamplePolicyCurves(phi float64, schedule taxmodel.Schedule, low, high float64, n int, opts solver.Options) (Curves, error) {
	if n < 2 {
		return Curves{}, fmt.Errorf("household: curve sample size %d must be at least 2", n)
	}
	if low < 0 || high <= low {
		return Curves{}, fmt.Errorf("household: budget grid [%v, %v] is invalid", low, high)
	}

	curves := Curves{
		Budgets:     floats.Span(make([]float64, n), low, high),
		Consumption: make([]float64, n),
		Housing:     make([]float64, n),
	}

	for i, budget := range curves.Budgets {
		res, err := Optimize(phi, budget, schedule, opts)
		if err != nil {
			return Curves{}, fmt.Errorf("household: budget grid point %d (%v): %w", i, budget, err)
		}
		curves.Consumption[i] = res.Consumption
		curves.Housing[i] = res.Housing
	}

	return curves, nil
}

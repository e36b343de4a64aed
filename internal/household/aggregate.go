package household

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"econmodels/pkg/solver"
	"econmodels/pkg/taxmodel"
)

// AverageTax runs the optimizer for every budget in the population and
// returns the mean tax paid on the optimal housing choices. An empty
// population is an error, not a NaN.
func AverageTax(logger *zap.Logger, budgets []float64, phi float64, schedule taxmodel.Schedule, opts solver.Options) (float64, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(budgets) == 0 {
		return 0, ErrEmptyPopulation
	}

	taxes := make([]float64, len(budgets))
	for i, budget := range budgets {
		res, err := Optimize(phi, budget, schedule, opts)
		if err != nil {
			return 0, fmt.Errorf("household %d: %w", i, err)
		}
		tax, err := schedule.TaxPaid(res.Housing)
		if err != nil {
			return 0, fmt.Errorf("household %d: %w", i, err)
		}
		taxes[i] = tax
		logger.Debug("household tax computed",
			zap.String("op", "household.AverageTax"),
			zap.Int("household", i),
			zap.Float64("budget", budget),
			zap.Float64("housing", res.Housing),
			zap.Float64("tax", tax),
		)
	}

	return stat.Mean(taxes, nil), nil
}

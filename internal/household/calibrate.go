package household

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"econmodels/pkg/constants"
	"econmodels/pkg/mathutil"
	"econmodels/pkg/solver"
	"econmodels/pkg/taxmodel"
)

// Calibration holds the outcome of solving for the general tax rate.
type Calibration struct {
	// GeneralRate is the rate in [0,1] minimizing the gap to the target.
	GeneralRate float64
	// AchievedAverageTax is the population average tax at GeneralRate.
	AchievedAverageTax float64
	// Gap is |target - AchievedAverageTax|. Non-zero beyond tolerance
	// when the target is unreachable within [0,1].
	Gap float64
	// Iterations is the number of outer solver iterations used.
	Iterations int
	// Converged reports whether the outer search met its tolerance.
	Converged bool
}

// CalibrateGeneralRate finds the general tax rate in [0,1] whose
// population average tax is closest to target. The absolute gap is
// minimized, so an unreachable target resolves to the boundary rate
// with the smallest gap rather than an error.
func CalibrateGeneralRate(logger *zap.Logger, budgets []float64, target, phi float64, schedule taxmodel.Schedule, opts solver.Options) (Calibration, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(budgets) == 0 {
		return Calibration{}, ErrEmptyPopulation
	}
	if !mathutil.IsFinite(target) || target < 0 {
		return Calibration{}, fmt.Errorf("household: target average tax %v must be a non-negative finite number", target)
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = constants.CalibrationTolerance
	}

	// The nested optimizer runs once per household per outer iterate;
	// it keeps the default tolerance rather than the calibration one.
	var innerOpts solver.Options
	innerOpts.Normalize()

	var innerErr error
	objective := func(rate float64) float64 {
		candidate := schedule
		candidate.GeneralRate = rate
		avg, err := AverageTax(nil, budgets, phi, candidate, innerOpts)
		if err != nil {
			if innerErr == nil {
				innerErr = err
			}
			return math.Inf(1)
		}
		return math.Abs(target - avg)
	}

	res, err := solver.Minimize(objective, 0, 1, opts)
	if innerErr != nil {
		return Calibration{}, fmt.Errorf("household: calibration objective failed: %w", innerErr)
	}
	if err != nil {
		return Calibration{}, fmt.Errorf("household: calibrating general rate: %w", err)
	}

	calibrated := schedule
	calibrated.GeneralRate = res.X
	achieved, err := AverageTax(nil, budgets, phi, calibrated, innerOpts)
	if err != nil {
		return Calibration{}, err
	}

	calibration := Calibration{
		GeneralRate:        res.X,
		AchievedAverageTax: achieved,
		Gap:                math.Abs(target - achieved),
		Iterations:         res.Iterations,
		Converged:          res.Converged,
	}

	logger.Info("general tax rate calibrated",
		zap.String("op", "household.CalibrateGeneralRate"),
		zap.Float64("target", target),
		zap.Float64("generalRate", calibration.GeneralRate),
		zap.Float64("achieved", calibration.AchievedAverageTax),
		zap.Float64("gap", calibration.Gap),
		zap.Int("iterations", calibration.Iterations),
		zap.Bool("converged", calibration.Converged),
	)

	return calibration, nil
}

package malthus

import (
	"fmt"
	"math"

	"econmodels/pkg/mathutil"
)

// ModelWithGrowth is the second model variant: the baseline economy
// with exogenous technology growth. Population no longer settles at a
// fixed level, but income per capita still converges.
type ModelWithGrowth struct {
	Model `yaml:",inline" mapstructure:",squash"`
	// TechGrowth is the per-period growth rate of technology; non-negative.
	TechGrowth float64 `yaml:"techGrowth" mapstructure:"techGrowth"`
}

// Validate returns an error when the parameters are outside their
// documented domains.
func (m ModelWithGrowth) Validate() error {
	if err := m.Model.Validate(); err != nil {
		return err
	}
	if !mathutil.IsFinite(m.TechGrowth) || m.TechGrowth < 0 {
		return fmt.Errorf("%w: tech growth %v must be non-negative", ErrInvalidParameters, m.TechGrowth)
	}
	return nil
}

// TechnologyAt returns A_t = A * (1+g)^t.
func (m ModelWithGrowth) TechnologyAt(period int) float64 {
	return m.Technology * math.Pow(1+m.TechGrowth, float64(period))
}

// LawOfMotionAt maps this period's population to next period's under
// the technology level of the given period.
func (m ModelWithGrowth) LawOfMotionAt(population float64, period int) float64 {
	economy := m.Model
	economy.Technology = m.TechnologyAt(period)
	return economy.LawOfMotion(population)
}

// SteadyStatePath returns the moving population target
// L*_t = (eta/mu)^(1/alpha) * A_t * X for the given period.
func (m ModelWithGrowth) SteadyStatePath(period int) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return math.Pow(m.Eta/m.Mu, 1/m.Alpha) * m.TechnologyAt(period) * m.Land, nil
}

// SteadyStateIncomePerCapita returns the long-run income per person,
// mu/eta. Technology growth shifts the population target but leaves
// per-capita income pinned down by demography: substituting the moving
// target into (A_t X)^alpha L^(-alpha) cancels every A_t term.
func (m ModelWithGrowth) SteadyStateIncomePerCapita() (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m.Mu / m.Eta, nil
}

// Transition simulates the population path from a starting level given
// as a fraction of the period-0 target.
func (m ModelWithGrowth) Transition(initialFraction float64, steps int) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !mathutil.IsFinite(initialFraction) || initialFraction <= 0 {
		return nil, fmt.Errorf("%w: initial fraction %v must be positive", ErrInvalidParameters, initialFraction)
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps %d must be at least 1", ErrInvalidParameters, steps)
	}

	target, err := m.SteadyStatePath(0)
	if err != nil {
		return nil, err
	}

	path := make([]float64, steps+1)
	path[0] = initialFraction * target
	for t := 1; t <= steps; t++ {
		path[t] = m.LawOfMotionAt(path[t-1], t-1)
	}
	return path, nil
}

// Package taxmodel implements the property tax schedule: the cost of
// owning a house at a given price, the exact inverse mapping from cost
// back to price, and the tax component of that cost.
//
// The schedule is piecewise linear in the house price. The assessed
// value eps*price is taxed at the general rate, and the portion of the
// assessed value above the cutoff is additionally taxed at the
// progressive rate. Interest on the full price completes the cost.
package taxmodel

import (
	"errors"
	"fmt"

	"econmodels/pkg/mathutil"
)

// ErrNegativeInput indicates a price or cost below zero was supplied.
var ErrNegativeInput = errors.New("taxmodel: input must be non-negative")

// Schedule holds the parameters of the property tax schedule. Every
// function in this package takes the schedule explicitly; there is no
// package-level default.
type Schedule struct {
	// InterestRate is the per-period interest rate on the house price.
	InterestRate float64 `yaml:"interestRate" mapstructure:"interestRate"`
	// GeneralRate is the tax rate applied to the full assessed value.
	GeneralRate float64 `yaml:"generalRate" mapstructure:"generalRate"`
	// ProgressiveRate is the surcharge applied to the assessed value
	// above Cutoff.
	ProgressiveRate float64 `yaml:"progressiveRate" mapstructure:"progressiveRate"`
	// AssessmentRatio maps a market price to its assessed value; in (0,1].
	AssessmentRatio float64 `yaml:"assessmentRatio" mapstructure:"assessmentRatio"`
	// Cutoff is the assessed value above which the progressive rate applies.
	Cutoff float64 `yaml:"cutoff" mapstructure:"cutoff"`
}

// Validate returns an error when the schedule parameters are outside
// their documented domains.
func (s Schedule) Validate() error {
	if !mathutil.IsFinite(s.InterestRate) || s.InterestRate < 0 {
		return fmt.Errorf("taxmodel: interest rate %v must be a non-negative finite number", s.InterestRate)
	}
	if !mathutil.IsFinite(s.GeneralRate) || s.GeneralRate < 0 {
		return fmt.Errorf("taxmodel: general rate %v must be a non-negative finite number", s.GeneralRate)
	}
	if !mathutil.IsFinite(s.ProgressiveRate) || s.ProgressiveRate < 0 {
		return fmt.Errorf("taxmodel: progressive rate %v must be a non-negative finite number", s.ProgressiveRate)
	}
	if !mathutil.IsFinite(s.AssessmentRatio) || s.AssessmentRatio <= 0 || s.AssessmentRatio > 1 {
		return fmt.Errorf("taxmodel: assessment ratio %v must be in (0,1]", s.AssessmentRatio)
	}
	if !mathutil.IsFinite(s.Cutoff) || s.Cutoff < 0 {
		return fmt.Errorf("taxmodel: cutoff %v must be a non-negative finite number", s.Cutoff)
	}
	if s.InterestRate+s.AssessmentRatio*s.GeneralRate == 0 {
		return errors.New("taxmodel: schedule has zero marginal cost below the cutoff; cost cannot be inverted")
	}
	return nil
}

// AssessedValue returns the taxable value of a house priced at price.
func (s Schedule) AssessedValue(price float64) float64 {
	return s.AssessmentRatio * price
}

// KinkPrice returns the house price at which the assessed value reaches
// the cutoff, i.e. where the progressive surcharge starts to bind.
func (s Schedule) KinkPrice() float64 {
	return s.Cutoff / s.AssessmentRatio
}

// TotalCost returns the per-period cost of owning a house at the given
// price: interest on the price, general tax on the assessed value, and
// the progressive surcharge on the assessed value above the cutoff.
func (s Schedule) TotalCost(price float64) (float64, error) {
	if !mathutil.IsFinite(price) || price < 0 {
		return 0, fmt.Errorf("%w: price %v", ErrNegativeInput, price)
	}
	assessed := s.AssessedValue(price)
	cost := s.InterestRate*price + s.GeneralRate*assessed + s.ProgressiveRate*mathutil.PositivePart(assessed-s.Cutoff)
	return cost, nil
}

// TaxPaid returns only the tax component of the ownership cost for a
// house at the given price.
func (s Schedule) TaxPaid(price float64) (float64, error) {
	if !mathutil.IsFinite(price) || price < 0 {
		return 0, fmt.Errorf("%w: price %v", ErrNegativeInput, price)
	}
	assessed := s.AssessedValue(price)
	return s.GeneralRate*assessed + s.ProgressiveRate*mathutil.PositivePart(assessed-s.Cutoff), nil
}

// HousePrice inverts TotalCost exactly: it returns the price whose
// ownership cost equals cost. The branch point is the cost at the kink
// price, where the assessed value crosses the cutoff.
func (s Schedule) HousePrice(cost float64) (float64, error) {
	if !mathutil.IsFinite(cost) || cost < 0 {
		return 0, fmt.Errorf("%w: cost %v", ErrNegativeInput, cost)
	}
	kinkCost, err := s.TotalCost(s.KinkPrice())
	if err != nil {
		return 0, err
	}
	if cost > kinkCost {
		return (cost + s.Cutoff*s.ProgressiveRate) / (s.InterestRate + s.AssessmentRatio*(s.GeneralRate+s.ProgressiveRate)), nil
	}
	return cost / (s.InterestRate + s.GeneralRate*s.AssessmentRatio), nil
}

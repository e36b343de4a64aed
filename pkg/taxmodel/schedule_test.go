package taxmodel

import (
	"errors"
	"math"
	"testing"
)

func baseSchedule() Schedule {
	return Schedule{
		InterestRate:    0.03,
		GeneralRate:     0.012,
		ProgressiveRate: 0.004,
		AssessmentRatio: 0.5,
		Cutoff:          3,
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Schedule)
		expectErr bool
	}{
		{
			name:      "Valid schedule",
			mutate:    func(s *Schedule) {},
			expectErr: false,
		},
		{
			name:      "Negative interest rate",
			mutate:    func(s *Schedule) { s.InterestRate = -0.01 },
			expectErr: true,
		},
		{
			name:      "Negative general rate",
			mutate:    func(s *Schedule) { s.GeneralRate = -0.5 },
			expectErr: true,
		},
		{
			name:      "Zero assessment ratio",
			mutate:    func(s *Schedule) { s.AssessmentRatio = 0 },
			expectErr: true,
		},
		{
			name:      "Assessment ratio above one",
			mutate:    func(s *Schedule) { s.AssessmentRatio = 1.5 },
			expectErr: true,
		},
		{
			name:      "NaN cutoff",
			mutate:    func(s *Schedule) { s.Cutoff = math.NaN() },
			expectErr: true,
		},
		{
			name: "Zero marginal cost below cutoff",
			mutate: func(s *Schedule) {
				s.InterestRate = 0
				s.GeneralRate = 0
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseSchedule()
			tt.mutate(&s)
			err := s.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("Validate() = nil, expected error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
		})
	}
}

func TestTotalCostBelowCutoff(t *testing.T) {
	// Assessed value 0.5*3 = 1.5 < cutoff 3, so no progressive component.
	s := baseSchedule()
	cost, err := s.TotalCost(3)
	if err != nil {
		t.Fatalf("TotalCost(3) returned error: %v", err)
	}
	expected := 0.03*3 + 0.012*1.5
	if math.Abs(cost-expected) > 1e-12 {
		t.Errorf("TotalCost(3) = %v, expected %v", cost, expected)
	}
}

func TestTotalCostAboveCutoff(t *testing.T) {
	// Assessed value 0.5*10 = 5 > cutoff 3, progressive term on the excess 2.
	s := baseSchedule()
	cost, err := s.TotalCost(10)
	if err != nil {
		t.Fatalf("TotalCost(10) returned error: %v", err)
	}
	expected := 0.03*10 + 0.012*5.0 + 0.004*(5.0-3.0)
	if math.Abs(cost-expected) > 1e-12 {
		t.Errorf("TotalCost(10) = %v, expected %v", cost, expected)
	}
}

func TestTotalCostContinuousAtKink(t *testing.T) {
	s := baseSchedule()
	kink := s.KinkPrice()
	below, err := s.TotalCost(kink * (1 - 1e-10))
	if err != nil {
		t.Fatal(err)
	}
	above, err := s.TotalCost(kink * (1 + 1e-10))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(above-below) > 1e-9 {
		t.Errorf("TotalCost discontinuous at kink price %v: below=%v above=%v", kink, below, above)
	}
}

func TestTotalCostMonotonic(t *testing.T) {
	s := baseSchedule()
	previous := -1.0
	for price := 0.0; price <= 20; price += 0.25 {
		cost, err := s.TotalCost(price)
		if err != nil {
			t.Fatalf("TotalCost(%v) returned error: %v", price, err)
		}
		if cost < previous {
			t.Errorf("TotalCost decreased at price %v: %v < %v", price, cost, previous)
		}
		previous = cost
	}
}

func TestHousePriceRoundTrip(t *testing.T) {
	schedules := []struct {
		name     string
		schedule Schedule
	}{
		{name: "Base schedule", schedule: baseSchedule()},
		{
			name: "Calibration schedule",
			schedule: Schedule{
				InterestRate:    0.03,
				GeneralRate:     0.05,
				ProgressiveRate: 0.009,
				AssessmentRatio: 0.8,
				Cutoff:          8,
			},
		},
		{
			name: "No progressive rate",
			schedule: Schedule{
				InterestRate:    0.04,
				GeneralRate:     0.01,
				ProgressiveRate: 0,
				AssessmentRatio: 1.0,
				Cutoff:          5,
			},
		},
	}

	prices := []float64{0, 0.1, 1, 2.5, 5.99999, 6, 6.00001, 10, 42, 1000}
	for _, sc := range schedules {
		t.Run(sc.name, func(t *testing.T) {
			for _, price := range prices {
				cost, err := sc.schedule.TotalCost(price)
				if err != nil {
					t.Fatalf("TotalCost(%v) returned error: %v", price, err)
				}
				back, err := sc.schedule.HousePrice(cost)
				if err != nil {
					t.Fatalf("HousePrice(%v) returned error: %v", cost, err)
				}
				scale := math.Max(price, 1)
				if math.Abs(back-price) > 1e-9*scale {
					t.Errorf("round trip failed for price %v: got %v", price, back)
				}
			}
		})
	}
}

func TestTaxPaid(t *testing.T) {
	s := baseSchedule()
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{
			name:     "Below cutoff only general tax",
			price:    3,
			expected: 0.012 * 1.5,
		},
		{
			name:     "Above cutoff adds progressive tax",
			price:    10,
			expected: 0.012*5.0 + 0.004*2.0,
		},
		{
			name:     "Zero price zero tax",
			price:    0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, err := s.TaxPaid(tt.price)
			if err != nil {
				t.Fatalf("TaxPaid(%v) returned error: %v", tt.price, err)
			}
			if math.Abs(tax-tt.expected) > 1e-12 {
				t.Errorf("TaxPaid(%v) = %v, expected %v", tt.price, tax, tt.expected)
			}
		})
	}
}

func TestNegativeInputs(t *testing.T) {
	s := baseSchedule()
	if _, err := s.TotalCost(-1); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("TotalCost(-1) error = %v, expected ErrNegativeInput", err)
	}
	if _, err := s.HousePrice(-0.5); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("HousePrice(-0.5) error = %v, expected ErrNegativeInput", err)
	}
	if _, err := s.TaxPaid(math.NaN()); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("TaxPaid(NaN) error = %v, expected ErrNegativeInput", err)
	}
}

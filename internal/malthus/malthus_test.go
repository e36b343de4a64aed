package malthus

import (
	"errors"
	"math"
	"testing"

	"econmodels/pkg/solver"
)

func testModel() Model {
	return Model{
		Technology: 1,
		Land:       1,
		Alpha:      0.15,
		Eta:        0.25,
		Mu:         0.4,
	}
}

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Model)
		expectErr bool
	}{
		{name: "Valid model", mutate: func(m *Model) {}, expectErr: false},
		{name: "Zero technology", mutate: func(m *Model) { m.Technology = 0 }, expectErr: true},
		{name: "Negative land", mutate: func(m *Model) { m.Land = -1 }, expectErr: true},
		{name: "Alpha at one", mutate: func(m *Model) { m.Alpha = 1 }, expectErr: true},
		{name: "Alpha at zero", mutate: func(m *Model) { m.Alpha = 0 }, expectErr: true},
		{name: "Zero eta", mutate: func(m *Model) { m.Eta = 0 }, expectErr: true},
		{name: "Mu above one", mutate: func(m *Model) { m.Mu = 1.1 }, expectErr: true},
		{name: "NaN mu", mutate: func(m *Model) { m.Mu = math.NaN() }, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			tt.mutate(&m)
			err := m.Validate()
			if tt.expectErr && !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Validate() = %v, expected ErrInvalidParameters", err)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
		})
	}
}

func TestSteadyStateIsFixedPoint(t *testing.T) {
	m := testModel()
	steadyState, err := m.SteadyState()
	if err != nil {
		t.Fatalf("SteadyState() returned error: %v", err)
	}
	if steadyState <= 0 {
		t.Fatalf("SteadyState() = %v, expected positive", steadyState)
	}
	next := m.LawOfMotion(steadyState)
	if math.Abs(next-steadyState) > 1e-9*steadyState {
		t.Errorf("LawOfMotion(L*) = %v, expected fixed point %v", next, steadyState)
	}
}

func TestSteadyStateClosedForm(t *testing.T) {
	m := testModel()
	steadyState, err := m.SteadyState()
	if err != nil {
		t.Fatal(err)
	}
	expected := math.Pow(m.Eta/m.Mu, 1/m.Alpha) * m.Technology * m.Land
	if math.Abs(steadyState-expected) > 1e-12 {
		t.Errorf("SteadyState() = %v, expected %v", steadyState, expected)
	}
}

func TestSolveSteadyStateMatchesClosedForm(t *testing.T) {
	m := testModel()
	closedForm, err := m.SteadyState()
	if err != nil {
		t.Fatal(err)
	}
	numeric, err := m.SolveSteadyState(nil, solver.Options{Tolerance: 1e-10})
	if err != nil {
		t.Fatalf("SolveSteadyState() returned error: %v", err)
	}
	if math.Abs(numeric-closedForm) > 1e-6*closedForm {
		t.Errorf("SolveSteadyState() = %v, closed form %v", numeric, closedForm)
	}
}

func TestTransitionConvergesFromBelowAndAbove(t *testing.T) {
	m := testModel()
	steadyState, err := m.SteadyState()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name            string
		initialFraction float64
	}{
		{name: "From below", initialFraction: 0.2},
		{name: "From above", initialFraction: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := m.Transition(tt.initialFraction, 400)
			if err != nil {
				t.Fatalf("Transition() returned error: %v", err)
			}
			if len(path) != 401 {
				t.Fatalf("Transition() length = %d, expected 401", len(path))
			}

			// The gap to the steady state shrinks every period.
			for i := 1; i < len(path); i++ {
				gapBefore := math.Abs(path[i-1] - steadyState)
				gapAfter := math.Abs(path[i] - steadyState)
				if gapAfter > gapBefore+1e-12 {
					t.Fatalf("gap grew at step %d: %v -> %v", i, gapBefore, gapAfter)
				}
			}

			final := path[len(path)-1]
			if math.Abs(final-steadyState) > 1e-5*steadyState {
				t.Errorf("Transition() final = %v, expected near %v", final, steadyState)
			}
		})
	}
}

func TestTransitionInvalidInputs(t *testing.T) {
	m := testModel()
	if _, err := m.Transition(0, 10); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Transition(0, 10) error = %v, expected ErrInvalidParameters", err)
	}
	if _, err := m.Transition(0.5, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Transition(0.5, 0) error = %v, expected ErrInvalidParameters", err)
	}
}

func TestIncomePerCapitaAtSteadyState(t *testing.T) {
	// At the fixed point births equal deaths, which pins income per
	// capita at mu/eta.
	m := testModel()
	steadyState, err := m.SteadyState()
	if err != nil {
		t.Fatal(err)
	}
	income := m.IncomePerCapita(steadyState)
	expected := m.Mu / m.Eta
	if math.Abs(income-expected) > 1e-9 {
		t.Errorf("IncomePerCapita(L*) = %v, expected %v", income, expected)
	}
}

func TestGrowthVariantSteadyStatePath(t *testing.T) {
	m := ModelWithGrowth{Model: testModel(), TechGrowth: 0.02}

	first, err := m.SteadyStatePath(0)
	if err != nil {
		t.Fatalf("SteadyStatePath(0) returned error: %v", err)
	}
	base, err := m.Model.SteadyState()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(first-base) > 1e-12 {
		t.Errorf("SteadyStatePath(0) = %v, expected baseline %v", first, base)
	}

	// The target grows with technology.
	later, err := m.SteadyStatePath(10)
	if err != nil {
		t.Fatal(err)
	}
	expected := base * math.Pow(1.02, 10)
	if math.Abs(later-expected) > 1e-9*expected {
		t.Errorf("SteadyStatePath(10) = %v, expected %v", later, expected)
	}
}

func TestGrowthVariantIncomePerCapita(t *testing.T) {
	m := ModelWithGrowth{Model: testModel(), TechGrowth: 0.02}
	income, err := m.SteadyStateIncomePerCapita()
	if err != nil {
		t.Fatalf("SteadyStateIncomePerCapita() returned error: %v", err)
	}
	if math.Abs(income-m.Mu/m.Eta) > 1e-12 {
		t.Errorf("SteadyStateIncomePerCapita() = %v, expected %v", income, m.Mu/m.Eta)
	}
}

func TestGrowthVariantZeroGrowthMatchesBaseline(t *testing.T) {
	base := testModel()
	m := ModelWithGrowth{Model: base, TechGrowth: 0}

	pathGrowth, err := m.Transition(0.5, 50)
	if err != nil {
		t.Fatalf("Transition() returned error: %v", err)
	}
	pathBase, err := base.Transition(0.5, 50)
	if err != nil {
		t.Fatal(err)
	}
	for i := range pathBase {
		if math.Abs(pathGrowth[i]-pathBase[i]) > 1e-12 {
			t.Fatalf("paths diverge at step %d: %v vs %v", i, pathGrowth[i], pathBase[i])
		}
	}
}

func TestGrowthVariantValidate(t *testing.T) {
	m := ModelWithGrowth{Model: testModel(), TechGrowth: -0.01}
	if err := m.Validate(); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("Validate() = %v, expected ErrInvalidParameters", err)
	}
}

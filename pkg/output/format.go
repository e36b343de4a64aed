// Package output provides utilities for formatting and displaying
// model results.
package output

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"econmodels/internal/household"
)

// HouseholdRow pairs a budget with its optimization outcome.
type HouseholdRow struct {
	Budget  float64
	Result  household.Result
	TaxPaid float64
}

// GrowthSummary holds the population model outputs for display.
type GrowthSummary struct {
	SteadyState float64
	// IncomePerCapita is income per person at the steady state.
	IncomePerCapita float64
	// Path is the simulated transition, starting at the initial level.
	Path []float64
}

// Analysis aggregates everything a single run produced.
type Analysis struct {
	Preference  float64
	Households  []HouseholdRow
	AverageTax  float64
	Calibration *household.Calibration
	Growth      *GrowthSummary
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(analysis Analysis) {
	p := message.NewPrinter(language.English)

	if len(analysis.Households) > 0 {
		fmt.Printf("--- Household optimization (phi = %.3f) ---\n", analysis.Preference)
		fmt.Printf("Budget   | Consumption | Housing  | Utility  | Tax paid\n")
		fmt.Printf("______   | ___________ | _______  | _______  | ________\n")
		for _, row := range analysis.Households {
			_, _ = p.Printf("%8.4f | %11.4f | %8.4f | %8.4f | %8.6f\n",
				row.Budget, row.Result.Consumption, row.Result.Housing, row.Result.Utility, row.TaxPaid)
		}
		_, _ = p.Printf("Average tax paid: %.6f\n", analysis.AverageTax)
	}

	if analysis.Calibration != nil {
		c := analysis.Calibration
		fmt.Printf("\n--- Calibration ---\n")
		_, _ = p.Printf("General tax rate: %.6f\n", c.GeneralRate)
		_, _ = p.Printf("Achieved average tax: %.6f (gap %.2e, %d iterations, converged=%t)\n",
			c.AchievedAverageTax, c.Gap, c.Iterations, c.Converged)
	}

	if analysis.Growth != nil {
		g := analysis.Growth
		fmt.Printf("\n--- Population growth ---\n")
		_, _ = p.Printf("Steady state population: %.6f\n", g.SteadyState)
		_, _ = p.Printf("Steady state income per capita: %.6f\n", g.IncomePerCapita)
		if len(g.Path) > 0 {
			_, _ = p.Printf("Transition: L_0 = %.6f -> L_%d = %.6f\n",
				g.Path[0], len(g.Path)-1, g.Path[len(g.Path)-1])
		}
	}
}

// CsvFormat outputs the household rows in comma-separated value format.
func CsvFormat(analysis Analysis) {
	fmt.Printf(`"budget","consumption","housing","utility","taxPaid"`)
	fmt.Printf("\n")
	for _, row := range analysis.Households {
		fmt.Printf(`"%.6f","%.6f","%.6f","%.6f","%.6f"`,
			row.Budget, row.Result.Consumption, row.Result.Housing, row.Result.Utility, row.TaxPaid)
		fmt.Printf("\n")
	}
}

// Package constants provides shared constants for the econmodels application.
package constants

// Numeric tolerances
const (
	// DefaultSolverTolerance is the interval width at which the bounded
	// scalar search is considered converged.
	DefaultSolverTolerance = 1e-8

	// CalibrationTolerance is the tighter tolerance used when solving for
	// the general tax rate; the averaged objective is smooth and cheap
	// enough to justify it.
	CalibrationTolerance = 1e-9

	// DefaultMaxIterations caps the bounded scalar search.
	DefaultMaxIterations = 500

	// BudgetIdentityTolerance bounds |c* + totalcost(h*) - m| in the
	// optimizer's result.
	BudgetIdentityTolerance = 1e-6
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Dataset client defaults
const (
	// DefaultStatsBaseURL is the Eurostat dissemination API base URL.
	DefaultStatsBaseURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data"

	// DefaultRequestTimeoutSeconds bounds a single dataset fetch.
	DefaultRequestTimeoutSeconds = 10
)

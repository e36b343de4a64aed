// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"econmodels/internal/malthus"
	"econmodels/pkg/solver"
	"econmodels/pkg/taxmodel"
)

// Configuration holds all configuration for econmodels.
type Configuration struct {
	Tax         taxmodel.Schedule
	Household   HouseholdConfig
	Calibration *CalibrationConfig `yaml:"calibration,omitempty"`
	Growth      *GrowthConfig      `yaml:"growth,omitempty"`
	Solver      solver.Options     `yaml:"solver,omitempty"`
	Logging     LoggingConfig      `yaml:"logging,omitempty"`
	Output      OutputConfig       `yaml:"output,omitempty"`
	Report      ReportConfig       `yaml:"report,omitempty"`
}

// HouseholdConfig holds the household preference and the budgets to optimize.
type HouseholdConfig struct {
	Preference float64   // weight on housing, in (0, 1)
	Budgets    []float64 // cash-on-hand per household
	Curve      CurveConfig
}

// CurveConfig describes the budget grid for sampling policy functions.
type CurveConfig struct {
	Low    float64 `yaml:"low,omitempty"`
	High   float64 `yaml:"high,omitempty"`
	Points int     `yaml:"points,omitempty"`
}

// CalibrationConfig holds the target for solving the general tax rate.
type CalibrationConfig struct {
	TargetAverageTax float64 `yaml:"targetAverageTax"`
	Solver           solver.Options
}

// GrowthConfig holds the population model parameters.
type GrowthConfig struct {
	Technology      float64
	Land            float64
	Alpha           float64
	Eta             float64
	Mu              float64
	TechGrowth      float64 `yaml:"techGrowth,omitempty"`
	InitialFraction float64 `yaml:"initialFraction,omitempty"`
	Steps           int     `yaml:"steps,omitempty"`
}

// Model converts the growth section into a population model.
func (g *GrowthConfig) Model() malthus.ModelWithGrowth {
	return malthus.ModelWithGrowth{
		Model: malthus.Model{
			Technology: g.Technology,
			Land:       g.Land,
			Alpha:      g.Alpha,
			Eta:        g.Eta,
			Mu:         g.Mu,
		},
		TechGrowth: g.TechGrowth,
	}
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ReportConfig holds the optional PDF report output path.
type ReportConfig struct {
	File string `yaml:"file,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration
// and returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if err := c.Tax.Validate(); err != nil {
		warnings = append(warnings, fmt.Sprintf("tax schedule: %v", err))
	}
	if c.Household.Preference <= 0 || c.Household.Preference >= 1 {
		warnings = append(warnings, fmt.Sprintf("household preference %v outside (0, 1)", c.Household.Preference))
	}
	if len(c.Household.Budgets) == 0 {
		warnings = append(warnings, "no household budgets configured")
	}
	for i, budget := range c.Household.Budgets {
		if budget < 0 {
			warnings = append(warnings, fmt.Sprintf("household budget %d is negative (%v)", i, budget))
		}
	}

	if c.Household.Curve.Points != 0 {
		curve := c.Household.Curve
		if curve.Points < 2 {
			warnings = append(warnings, fmt.Sprintf("curve needs at least 2 points, got %d", curve.Points))
		}
		if curve.Low < 0 || curve.High <= curve.Low {
			warnings = append(warnings, fmt.Sprintf("curve range [%v, %v] is not an increasing non-negative interval", curve.Low, curve.High))
		}
	}

	if c.Calibration != nil && c.Calibration.TargetAverageTax < 0 {
		warnings = append(warnings, fmt.Sprintf("calibration target %v is negative", c.Calibration.TargetAverageTax))
	}

	if c.Growth != nil {
		model := c.Growth.Model()
		if err := model.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("growth model: %v", err))
		}
		if c.Growth.InitialFraction < 0 {
			warnings = append(warnings, fmt.Sprintf("growth initial fraction %v is negative", c.Growth.InitialFraction))
		}
	}

	if c.Solver.Tolerance < 0 || c.Solver.MaxIterations < 0 {
		warnings = append(warnings, "solver tolerance and max iterations must not be negative")
	}

	return warnings
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigYAML = `---
tax:
  interestRate: 0.03
  generalRate: 0.012
  progressiveRate: 0.004
  assessmentRatio: 0.5
  cutoff: 3.0
household:
  preference: 0.3
  budgets: [0.4, 0.5, 1.0]
  curve:
    low: 0.4
    high: 1.5
    points: 50
calibration:
  targetAverageTax: 0.045036
  solver:
    tolerance: 1e-9
    maxIterations: 1000
growth:
  technology: 1.0
  land: 1.0
  alpha: 0.15
  eta: 0.25
  mu: 0.4
  techGrowth: 0.02
  initialFraction: 0.5
  steps: 100
solver:
  tolerance: 1e-8
  maxIterations: 500
logging:
  level: debug
  format: console
output:
  format: pretty
report:
  file: report.pdf
`

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfiguration() returned error: %v", err)
	}

	if conf.Tax.InterestRate != 0.03 {
		t.Errorf("Tax.InterestRate = %v, expected 0.03", conf.Tax.InterestRate)
	}
	if conf.Tax.Cutoff != 3.0 {
		t.Errorf("Tax.Cutoff = %v, expected 3.0", conf.Tax.Cutoff)
	}
	if conf.Household.Preference != 0.3 {
		t.Errorf("Household.Preference = %v, expected 0.3", conf.Household.Preference)
	}
	if len(conf.Household.Budgets) != 3 {
		t.Errorf("Household.Budgets has %d entries, expected 3", len(conf.Household.Budgets))
	}
	if conf.Household.Curve.Points != 50 {
		t.Errorf("Household.Curve.Points = %d, expected 50", conf.Household.Curve.Points)
	}

	if conf.Calibration == nil {
		t.Fatal("Calibration section was not decoded")
	}
	if conf.Calibration.TargetAverageTax != 0.045036 {
		t.Errorf("Calibration.TargetAverageTax = %v, expected 0.045036", conf.Calibration.TargetAverageTax)
	}
	if conf.Calibration.Solver.MaxIterations != 1000 {
		t.Errorf("Calibration.Solver.MaxIterations = %d, expected 1000", conf.Calibration.Solver.MaxIterations)
	}

	if conf.Growth == nil {
		t.Fatal("Growth section was not decoded")
	}
	if conf.Growth.TechGrowth != 0.02 {
		t.Errorf("Growth.TechGrowth = %v, expected 0.02", conf.Growth.TechGrowth)
	}
	model := conf.Growth.Model()
	if model.Alpha != 0.15 || model.Mu != 0.4 {
		t.Errorf("Growth.Model() = %+v, parameters were not carried over", model)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", conf.Logging)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, expected pretty", conf.Output.Format)
	}
	if conf.Report.File != "report.pdf" {
		t.Errorf("Report.File = %q, expected report.pdf", conf.Report.File)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfiguration() on missing file returned nil error")
	}
}

func TestLoadConfigurationOptionalSections(t *testing.T) {
	minimal := `---
tax:
  interestRate: 0.03
  generalRate: 0.012
  progressiveRate: 0.004
  assessmentRatio: 0.5
  cutoff: 3.0
household:
  preference: 0.3
  budgets: [0.5]
`
	conf, err := LoadConfiguration(writeTestConfig(t, minimal))
	if err != nil {
		t.Fatalf("LoadConfiguration() returned error: %v", err)
	}
	if conf.Calibration != nil {
		t.Error("Calibration should be nil when the section is absent")
	}
	if conf.Growth != nil {
		t.Error("Growth should be nil when the section is absent")
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeTestConfig(t, testConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfiguration() returned error: %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("ValidateConfiguration() = %v, expected no warnings", warnings)
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		warning string
	}{
		{
			name:    "Bad preference",
			mutate:  func(c *Configuration) { c.Household.Preference = 1.5 },
			warning: "preference",
		},
		{
			name:    "No budgets",
			mutate:  func(c *Configuration) { c.Household.Budgets = nil },
			warning: "no household budgets",
		},
		{
			name:    "Negative budget",
			mutate:  func(c *Configuration) { c.Household.Budgets = []float64{0.5, -1} },
			warning: "negative",
		},
		{
			name:    "Bad curve",
			mutate:  func(c *Configuration) { c.Household.Curve = CurveConfig{Low: 2, High: 1, Points: 10} },
			warning: "curve",
		},
		{
			name:    "Negative calibration target",
			mutate:  func(c *Configuration) { c.Calibration.TargetAverageTax = -1 },
			warning: "calibration target",
		},
		{
			name:    "Bad growth parameters",
			mutate:  func(c *Configuration) { c.Growth.Alpha = 2 },
			warning: "growth model",
		},
		{
			name:    "Bad tax schedule",
			mutate:  func(c *Configuration) { c.Tax.AssessmentRatio = -0.5 },
			warning: "tax schedule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfiguration(writeTestConfig(t, testConfigYAML))
			if err != nil {
				t.Fatalf("LoadConfiguration() returned error: %v", err)
			}
			tt.mutate(conf)

			warnings := conf.ValidateConfiguration()
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.warning) {
					found = true
				}
			}
			if !found {
				t.Errorf("ValidateConfiguration() = %v, expected a warning containing %q", warnings, tt.warning)
			}
		})
	}
}

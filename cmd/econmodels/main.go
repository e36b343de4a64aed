package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"econmodels/internal/config"
	"econmodels/internal/household"
	"econmodels/pkg/constants"
	"econmodels/pkg/output"
	"econmodels/pkg/report"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	reportFile := flag.String("report", "", "PDF report path override")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s; accepted formats are %s and %s",
			outputFormat, constants.OutputFormatPretty, constants.OutputFormatCSV),
			zap.String("op", "main"),
		)
	}
	if *reportFile != "" {
		conf.Report.File = *reportFile
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	analysis := output.Analysis{Preference: conf.Household.Preference}

	// Solve the household problem for each configured budget.
	for _, budget := range conf.Household.Budgets {
		result, err := household.Optimize(conf.Household.Preference, budget, conf.Tax, conf.Solver)
		if err != nil {
			logger.Fatal(fmt.Sprintf("failed to optimize household with budget %v", budget),
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		taxPaid, err := conf.Tax.TaxPaid(result.Housing)
		if err != nil {
			logger.Fatal("failed to compute tax on optimal housing",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		analysis.Households = append(analysis.Households, output.HouseholdRow{
			Budget:  budget,
			Result:  result,
			TaxPaid: taxPaid,
		})
	}

	averageTax, err := household.AverageTax(logger, conf.Household.Budgets, conf.Household.Preference, conf.Tax, conf.Solver)
	if err != nil {
		logger.Fatal("failed to compute average tax",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	analysis.AverageTax = averageTax

	// Solve for the general tax rate when a target is configured.
	if conf.Calibration != nil {
		calibration, err := household.CalibrateGeneralRate(logger, conf.Household.Budgets,
			conf.Calibration.TargetAverageTax, conf.Household.Preference, conf.Tax, conf.Calibration.Solver)
		if err != nil {
			logger.Fatal("failed to calibrate general tax rate",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		analysis.Calibration = &calibration
	}

	// Run the population model when configured.
	if conf.Growth != nil {
		model := conf.Growth.Model()
		steadyState, err := model.SteadyStatePath(0)
		if err != nil {
			logger.Fatal("failed to compute population steady state",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		income, err := model.SteadyStateIncomePerCapita()
		if err != nil {
			logger.Fatal("failed to compute steady state income",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		growth := output.GrowthSummary{SteadyState: steadyState, IncomePerCapita: income}
		if conf.Growth.InitialFraction > 0 && conf.Growth.Steps > 0 {
			path, err := model.Transition(conf.Growth.InitialFraction, conf.Growth.Steps)
			if err != nil {
				logger.Fatal("failed to simulate population transition",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
			growth.Path = path
		}
		analysis.Growth = &growth
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(analysis)
	case constants.OutputFormatCSV:
		output.CsvFormat(analysis)
	}

	if conf.Report.File != "" {
		if err := writeReport(logger, conf); err != nil {
			logger.Fatal(fmt.Sprintf("failed to write report to %s", conf.Report.File),
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info(fmt.Sprintf("wrote report to %s", conf.Report.File),
			zap.String("op", "main"),
		)
	}
}

// writeReport renders the policy function chart when a budget grid is
// configured, falling back to the population chart otherwise.
func writeReport(logger *zap.Logger, conf *config.Configuration) error {
	curve := conf.Household.Curve
	if curve.Points >= 2 {
		curves, err := household.SamplePolicyCurves(conf.Household.Preference, conf.Tax,
			curve.Low, curve.High, curve.Points, conf.Solver)
		if err != nil {
			return err
		}
		rep, err := report.PolicyReport(curves)
		if err != nil {
			return err
		}
		return rep.WriteFile(conf.Report.File)
	}

	if conf.Growth != nil {
		initialFraction := conf.Growth.InitialFraction
		if initialFraction <= 0 {
			initialFraction = 0.5
		}
		rep, err := report.GrowthReport(conf.Growth.Model().Model, initialFraction, 200)
		if err != nil {
			return err
		}
		return rep.WriteFile(conf.Report.File)
	}

	logger.Warn("report requested but neither a budget grid nor a growth model is configured",
		zap.String("op", "main"),
	)
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/mortgage-sim/internal/config"
	"github.com/iwvelando/mortgage-sim/internal/logging"
	"github.com/iwvelando/mortgage-sim/internal/report"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/iwvelando/mortgage-sim/pkg/output"
	"github.com/iwvelando/mortgage-sim/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	compare := flag.Bool("compare", false, "compare the baseline against the extra-payment plan")
	extraPayments := flag.Bool("extra-payments", false, "report the extra-payment plan instead of the baseline")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	rep, err := report.Build(context.Background(), logger, nil, conf.Simulation.Normalize(), report.Options{
		Compare:       *compare,
		ExtraPayments: *extraPayments,
	})
	if err != nil {
		logger.Fatal("failed to run simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	rep.Warnings = warnings

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, *rep)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, rep.Result.Yearly)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, *rep)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

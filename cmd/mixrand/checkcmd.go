package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mixrand/internal/check"
	"mixrand/internal/config"
	"mixrand/internal/duration"
	"mixrand/internal/lifecycle"
)

func runCheck(args []string) {
	fs := flag.NewFlagSet("mixrand check", flag.ExitOnError)
	durationStr := fs.String("duration", "1m", "duration to run tests (e.g. 30s, 5m, 1h, 2d; bare number = minutes)")
	fs.StringVar(durationStr, "d", "1m", "shorthand for --duration")
	sampleSize := fs.Int("sample-size", 2500, "bytes per sample (FIPS tests require >= 2500)")
	fs.IntVar(sampleSize, "s", 2500, "shorthand for --sample-size")
	reportInterval := fs.Uint64("report-interval", 10, "progress report interval in seconds")
	fs.Uint64Var(reportInterval, "r", 10, "shorthand for --report-interval")
	sourcesFlag := fs.String("sources", "", "comma-separated list of sources to test (default: all available)")
	configFile := fs.String("config", "", "configuration file path (default: "+config.DefaultConfigPath+")")

	cpuFlags := registerCPURNGFlags(fs)
	logFlags := registerLogFlags(fs)

	fs.Parse(args)

	// check streams its own progress/report to stdout/stderr directly
	// rather than through the structured logger, but logging is still
	// initialized here so any lower-level library code that logs during
	// the run (e.g. source probing) goes through the configured level.
	logger, err := logFlags.buildLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand check: failed to initialize logging: %s\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	dur, err := duration.Parse(*durationStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand check: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.Build(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand check: %s\n", err)
		os.Exit(1)
	}
	cpuFlags.apply(&cfg.CPURNG)
	cfg.CPURNG.Validate()

	var sourceNames []string
	if *sourcesFlag != "" {
		for _, s := range strings.Split(*sourcesFlag, ",") {
			sourceNames = append(sourceNames, strings.TrimSpace(s))
		}
	}

	checkArgs := check.Args{
		Duration:       dur,
		SampleSize:     *sampleSize,
		ReportInterval: time.Duration(*reportInterval) * time.Second,
		Sources:        sourceNames,
	}

	ctrl := lifecycle.New()
	defer ctrl.Stop()

	if err := check.Run(checkArgs, cfg.CPURNG.Params(), cfg.CPURNG.FallbackMixBytes, ctrl); err != nil {
		fmt.Fprintf(os.Stderr, "mixrand check: %s\n", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"mixrand/internal/config"
	"mixrand/internal/output"
	"mixrand/internal/selector"
)

func runGenerate(args []string) {
	fs := flag.NewFlagSet("mixrand", flag.ExitOnError)
	numBytes := fs.Int("bytes", 32, "number of random bytes to generate")
	fs.IntVar(numBytes, "n", 32, "shorthand for --bytes")
	format := fs.String("format", "hex", "output format: hex, hex-upper, raw, base64, base64url, uuencode, text, octal, binary")
	fs.StringVar(format, "f", "hex", "shorthand for --format")
	outputFile := fs.String("output-file", "", "write output to this file instead of stdout")
	fs.StringVar(outputFile, "o", "", "shorthand for --output-file")
	configFile := fs.String("config", "", "configuration file path (default: "+config.DefaultConfigPath+")")

	cpuFlags := registerCPURNGFlags(fs)
	logFlags := registerLogFlags(fs)

	fs.Parse(args)

	cfg, err := config.Build(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand: %s\n", err)
		os.Exit(1)
	}
	cpuFlags.apply(&cfg.CPURNG)
	cfg.CPURNG.Validate()

	logger, err := logFlags.buildLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand: failed to initialize logging: %s\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	fmtKind, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand: %s\n", err)
		os.Exit(1)
	}

	if *numBytes <= 0 {
		logger.Error("byte count must be greater than 0")
		fmt.Fprintln(os.Stderr, "mixrand: byte count must be greater than 0")
		os.Exit(1)
	}

	params := selector.Params{
		CPU:              cfg.CPURNG.Params(),
		Oversample:       cfg.CPURNG.Oversample,
		FallbackMixBytes: cfg.CPURNG.FallbackMixBytes,
		TPMEnabled:       cfg.CPURNG.TPMEnabled,
	}

	result, err := selector.Generate(*numBytes, params, logger.Logger)
	if err != nil {
		logger.Error("entropy generation failed", "error", err)
		fmt.Fprintf(os.Stderr, "mixrand: %s\n", err)
		os.Exit(1)
	}
	logger.Debug("generated bytes", "count", *numBytes, "source", result.Source)

	if err := output.WriteOutput(result.Bytes, fmtKind, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "mixrand: failed to write output: %s\n", err)
		os.Exit(1)
	}
}

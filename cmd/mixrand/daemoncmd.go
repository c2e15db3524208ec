package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"mixrand/internal/config"
	"mixrand/internal/cpurng"
	"mixrand/internal/kerneldaemon"
	"mixrand/internal/lifecycle"
)

func runDaemon(args []string) {
	fs := flag.NewFlagSet("mixrand daemon", flag.ExitOnError)
	threshold := fs.Uint("threshold", 256, "entropy bits threshold below which to inject")
	fs.UintVar(threshold, "t", 256, "shorthand for --threshold")
	interval := fs.Uint64("interval", 5, "poll interval in seconds")
	fs.Uint64Var(interval, "i", 5, "shorthand for --interval")
	batchSize := fs.Int("batch-size", 64, "bytes to inject per round")
	fs.IntVar(batchSize, "b", 64, "shorthand for --batch-size")
	creditRatio := fs.Uint("credit-ratio", 4, "bits of entropy credited per byte (1-8)")
	fs.UintVar(creditRatio, "c", 4, "shorthand for --credit-ratio")
	configFile := fs.String("config", "", "configuration file path (default: "+config.DefaultConfigPath+")")
	metricsAddr := fs.String("metrics-addr", "", "address to serve /metrics and /healthz on, e.g. :9100 (disabled if empty)")
	dropUID := fs.Int("drop-to-uid", 0, "after opening /dev/random, setuid/setgid to this uid (0 disables privilege drop)")
	dropGID := fs.Int("drop-to-gid", 0, "gid to drop to alongside --drop-to-uid")

	cpuFlags := registerCPURNGFlags(fs)
	logFlags := registerLogFlags(fs)

	fs.Parse(args)

	if *creditRatio < 1 || *creditRatio > 8 {
		fmt.Fprintln(os.Stderr, "mixrand daemon: --credit-ratio must be between 1 and 8")
		os.Exit(1)
	}

	cfg, err := config.Build(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand daemon: %s\n", err)
		os.Exit(1)
	}
	cpuFlags.apply(&cfg.CPURNG)
	cfg.CPURNG.Validate()

	logger, err := logFlags.buildLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mixrand daemon: failed to initialize logging: %s\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	resolvedConfigPath := *configFile
	if resolvedConfigPath == "" {
		if _, statErr := os.Stat(config.DefaultConfigPath); statErr == nil {
			resolvedConfigPath = config.DefaultConfigPath
		}
	}

	daemonArgs := kerneldaemon.Args{
		Threshold:   uint32(*threshold),
		Interval:    time.Duration(*interval) * time.Second,
		BatchSize:   *batchSize,
		CreditRatio: uint32(*creditRatio),
		ConfigPath:  resolvedConfigPath,
		MetricsAddr: *metricsAddr,
		Version:     version,
		DropToUID:   *dropUID,
		DropToGID:   *dropGID,
		Reload: func() (cpurng.Params, int, error) {
			reloaded, err := config.Build(*configFile)
			if err != nil {
				return cpurng.Params{}, 0, err
			}
			cpuFlags.apply(&reloaded.CPURNG)
			reloaded.CPURNG.Validate()
			return reloaded.CPURNG.Params(), reloaded.CPURNG.FallbackMixBytes, nil
		},
	}

	ctrl := lifecycle.New()
	defer ctrl.Stop()

	if err := kerneldaemon.Run(daemonArgs, cfg.CPURNG.Params(), cfg.CPURNG.FallbackMixBytes, ctrl, logger); err != nil {
		logger.Error("daemon exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "mixrand daemon: %s\n", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"

	"mixrand/internal/config"
	"mixrand/internal/cpurng"
	"mixrand/internal/logging"
)

// cpuRngFlags holds the CPU-RNG tuning flags shared by the generate,
// daemon, and check subcommands. Each one overrides the corresponding
// config file value only when explicitly passed on the command line.
type cpuRngFlags struct {
	enableRDSEED     *bool
	enableRDRAND     *bool
	enableXSTORE     *bool
	rdrandRetries    *int
	rdseedRetries    *int
	xstoreQuality    *int
	cpuRngPrefer     *string
	fallbackMixBytes *int
	oversample       *int

	fs *flag.FlagSet
}

func registerCPURNGFlags(fs *flag.FlagSet) *cpuRngFlags {
	return &cpuRngFlags{
		fs:               fs,
		enableRDSEED:     fs.Bool("enable-rdseed", true, "enable RDSEED instruction"),
		enableRDRAND:     fs.Bool("enable-rdrand", true, "enable RDRAND instruction"),
		enableXSTORE:     fs.Bool("enable-xstore", true, "enable XSTORE instruction"),
		rdrandRetries:    fs.Int("rdrand-retries", 10, "RDRAND retry count (1-100)"),
		rdseedRetries:    fs.Int("rdseed-retries", 10, "RDSEED retry count (1-100)"),
		xstoreQuality:    fs.Int("xstore-quality", 3, "XSTORE quality factor (0-3)"),
		cpuRngPrefer:     fs.String("cpu-rng-prefer", "", "preferred CPU RNG instruction (rdseed, rdrand, xstore)"),
		fallbackMixBytes: fs.Int("fallback-mix-bytes", 32, "CPU entropy bytes mixed into fallback generation (0-1024)"),
		oversample:       fs.Int("oversample", 2, "standalone CPU RNG oversample ratio (1-16)"),
	}
}

// apply overrides cfg's fields with every flag the caller explicitly
// passed, leaving config-file/default values alone otherwise.
func (c *cpuRngFlags) apply(cfg *config.CPURNGConfig) {
	set := map[string]bool{}
	c.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["enable-rdseed"] {
		cfg.EnableRDSEED = *c.enableRDSEED
	}
	if set["enable-rdrand"] {
		cfg.EnableRDRAND = *c.enableRDRAND
	}
	if set["enable-xstore"] {
		cfg.EnableXSTORE = *c.enableXSTORE
	}
	if set["rdrand-retries"] {
		cfg.RDRANDRetries = *c.rdrandRetries
	}
	if set["rdseed-retries"] {
		cfg.RDSEEDRetries = *c.rdseedRetries
	}
	if set["xstore-quality"] {
		cfg.XstoreQuality = *c.xstoreQuality
	}
	if set["cpu-rng-prefer"] {
		var pref cpurng.Preference
		if err := pref.UnmarshalText([]byte(*c.cpuRngPrefer)); err == nil {
			cfg.Prefer = pref
		}
	}
	if set["fallback-mix-bytes"] {
		cfg.FallbackMixBytes = *c.fallbackMixBytes
	}
	if set["oversample"] {
		cfg.Oversample = *c.oversample
	}
}

// logFlags holds the logging flags shared by every subcommand.
type logFlags struct {
	logLevel *string
	logFile  *string
	syslog   *bool
}

func registerLogFlags(fs *flag.FlagSet) *logFlags {
	return &logFlags{
		logLevel: fs.String("log-level", "", "log level: error, warn, info, debug (default: warn, info for daemon)"),
		logFile:  fs.String("log-file", "", "append log messages to this file"),
		syslog:   fs.Bool("syslog", false, "send log messages to the local syslog daemon instead of stderr/file"),
	}
}

// buildLogger constructs a logger the way the reference CLI's logging
// init does: stderr, plus a file when --log-file is set, or syslog alone
// when --syslog is set; and a level that defaults to info for the
// daemon and warn otherwise.
func (l *logFlags) buildLogger(isDaemon bool) (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Output = "stderr"

	level := logging.LevelWarn
	if isDaemon {
		level = logging.LevelInfo
	}
	if *l.logLevel != "" {
		parsed, err := logging.ParseLevel(*l.logLevel)
		if err == nil {
			level = parsed
		}
	}
	cfg.Level = level

	if *l.logFile != "" {
		cfg.Output = "both"
		cfg.FilePath = *l.logFile
	}
	if *l.syslog {
		cfg.Output = "syslog"
	}
	if isDaemon {
		cfg.Component = "mixrand daemon"
	}

	return logging.New(cfg)
}

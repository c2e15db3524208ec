// Package config loads and validates the mixrand configuration: a
// single top-level "cpu_rng" TOML table.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"mixrand/internal/cpurng"
	"mixrand/internal/merr"
)

// DefaultConfigPath is where the daemon and CLI look for configuration
// when the caller does not pass --config.
const DefaultConfigPath = "/etc/mixrand.toml"

// CPURNGConfig is the on-disk/CLI-overridable CPU-RNG configuration
// described in spec.md §3, extended with TPMEnabled (SPEC_FULL.md's
// TPM source addition).
type CPURNGConfig struct {
	EnableRDSEED     bool              `toml:"enable_rdseed"`
	EnableRDRAND     bool              `toml:"enable_rdrand"`
	EnableXSTORE     bool              `toml:"enable_xstore"`
	RDRANDRetries    int               `toml:"rdrand_retries"`
	RDSEEDRetries    int               `toml:"rdseed_retries"`
	XstoreQuality    int               `toml:"xstore_quality"`
	Prefer           cpurng.Preference `toml:"prefer"`
	FallbackMixBytes int               `toml:"fallback_mix_bytes"`
	Oversample       int               `toml:"oversample"`
	TPMEnabled       bool              `toml:"tpm_enabled"`
}

// Config is the root configuration document.
type Config struct {
	CPURNG CPURNGConfig `toml:"cpu_rng"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		CPURNG: CPURNGConfig{
			EnableRDSEED:     true,
			EnableRDRAND:     true,
			EnableXSTORE:     true,
			RDRANDRetries:    10,
			RDSEEDRetries:    10,
			XstoreQuality:    3,
			Prefer:           cpurng.PreferRDSEED,
			FallbackMixBytes: 32,
			Oversample:       2,
			TPMEnabled:       true,
		},
	}
}

// Params converts the CPU-RNG configuration to the plain Params value
// the cpurng package's instruction layer understands.
func (c CPURNGConfig) Params() cpurng.Params {
	return cpurng.Params{
		EnableRDSEED:  c.EnableRDSEED,
		EnableRDRAND:  c.EnableRDRAND,
		EnableXSTORE:  c.EnableXSTORE,
		RDSEEDRetries: c.RDSEEDRetries,
		RDRANDRetries: c.RDRANDRetries,
		XstoreQuality: c.XstoreQuality,
		Prefer:        c.Prefer,
	}
}

// Validate clamps every numeric field to its documented range in
// place. It is idempotent: calling it twice leaves the config
// unchanged after the first call. Zero is a valid minimum for
// XstoreQuality and FallbackMixBytes.
func (c *CPURNGConfig) Validate() {
	c.RDRANDRetries = clamp(c.RDRANDRetries, 1, 100)
	c.RDSEEDRetries = clamp(c.RDSEEDRetries, 1, 100)
	c.XstoreQuality = clamp(c.XstoreQuality, 0, 3)
	c.FallbackMixBytes = clamp(c.FallbackMixBytes, 0, 1024)
	c.Oversample = clamp(c.Oversample, 1, 16)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Load reads configuration from a TOML file.
//
// If explicitPath is non-empty and the file does not exist, Load
// returns an invalid-argument error. If explicitPath is empty, Load
// tries DefaultConfigPath; a missing file there is not an error and
// yields Default().
func Load(explicitPath string) (Config, error) {
	path := explicitPath
	if path == "" {
		path = DefaultConfigPath
		if _, err := os.Stat(path); err != nil {
			return Default(), nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return Config{}, merr.InvalidArgs("config file not found: %s", path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, merr.InvalidArgs("failed to parse config %s: %s", path, err)
	}
	return cfg, nil
}

// Build layers configuration in the same order the reference CLI used:
// defaults, then an optional TOML file, then CLI overrides, then
// validation. Build itself only loads the file and validates; the
// caller applies CLI overrides field-by-field to the returned config
// and validates again, since the flag package has no notion of "was
// this flag set" without the caller tracking it.
func Build(explicitPath string) (Config, error) {
	cfg, err := Load(explicitPath)
	if err != nil {
		return Config{}, err
	}
	cfg.CPURNG.Validate()
	return cfg, nil
}

// Package selector implements the entropy generation priority chain:
// hardware RNG, TPM, CPU instructions (standalone, oversample-aware),
// haveged, then the fallback compositor. Each failed step is swallowed
// and logged at debug; only exhausting every step is an error.
package selector

import (
	"fmt"
	"log/slog"

	"mixrand/internal/cpurng"
	"mixrand/internal/fallback"
	"mixrand/internal/sources"
)

// Result carries the generated bytes and a human-readable label naming
// which source produced them, for the CLI's verbose/status output.
type Result struct {
	Bytes  []byte
	Source string
}

// Params configures the selector's CPU-instruction and fallback steps.
// It mirrors config.CPURNGConfig without depending on the config
// package.
type Params struct {
	CPU              cpurng.Params
	Oversample       int
	FallbackMixBytes int
	TPMEnabled       bool
}

// Generate runs the priority chain and returns the first source that
// succeeds. logger may be nil, in which case per-step failures are not
// logged.
func Generate(count int, p Params, logger *slog.Logger) (Result, error) {
	if bytes, err := sources.ReadHWRNG(count); err == nil {
		return Result{Bytes: bytes, Source: "hardware RNG (/dev/hwrng)"}, nil
	} else {
		debugf(logger, "hwrng unavailable: %s", err)
	}

	if p.TPMEnabled {
		if bytes, err := sources.ReadTPM(count); err == nil {
			return Result{Bytes: bytes, Source: "TPM (TPM2_GetRandom)"}, nil
		} else {
			debugf(logger, "tpm unavailable: %s", err)
		}
	}

	if result, err := cpurng.CollectCPUEntropyStandalone(count, p.Oversample, p.CPU); err == nil {
		source := "CPU hardware RNG (" + result.SourceLabel + ")"
		if p.Oversample > 1 {
			source = "CPU hardware RNG (" + result.SourceLabel + ", oversampled)"
		}
		return Result{Bytes: result.Bytes, Source: source}, nil
	} else {
		debugf(logger, "cpurng unavailable: %s", err)
	}

	if bytes, err := sources.ReadHaveged(count); err == nil {
		return Result{Bytes: bytes, Source: "haveged (/dev/random)"}, nil
	} else {
		debugf(logger, "haveged unavailable: %s", err)
	}

	bytes, err := fallback.Generate(count, p.FallbackMixBytes, p.CPU)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Bytes:  bytes,
		Source: "fallback (urandom + procfs + jitter + cpu-rng -> BLAKE2b -> ChaCha20)",
	}, nil
}

func debugf(logger *slog.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...))
}

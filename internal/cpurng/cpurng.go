// Package cpurng detects and invokes the x86_64 hardware RNG
// instructions (RDRAND, RDSEED, VIA PadLock XSTORE) via inline machine
// code, caching each capability check in a process-wide tri-state cell.
//
// On any non-x86_64 architecture every probe reports absent and every
// collector fails with a "not available on this architecture" error;
// see cpurng_other.go.
package cpurng

import (
	"mixrand/internal/expander"
	"mixrand/internal/merr"
	"mixrand/internal/mixer"
	"mixrand/internal/zeroize"
)

// Preference names the CPU RNG instruction a caller prefers to try
// first when more than one is enabled.
type Preference int

const (
	PreferRDSEED Preference = iota
	PreferRDRAND
	PreferXSTORE
)

func (p Preference) String() string {
	switch p {
	case PreferRDSEED:
		return "rdseed"
	case PreferRDRAND:
		return "rdrand"
	case PreferXSTORE:
		return "xstore"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so a Preference can be
// written back to TOML.
func (p Preference) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so a Preference can
// be decoded directly from a TOML string value such as "rdrand".
func (p *Preference) UnmarshalText(text []byte) error {
	switch string(text) {
	case "rdseed", "":
		*p = PreferRDSEED
	case "rdrand":
		*p = PreferRDRAND
	case "xstore":
		*p = PreferXSTORE
	default:
		return merr.InvalidArgs("unknown cpu_rng preference %q", text)
	}
	return nil
}

// Params is the subset of CPU-RNG configuration the instruction layer
// needs: which instructions are enabled, their retry/quality tuning,
// and which one to try first. It deliberately does not reference the
// config package, so this package stays a leaf with no dependency on
// application configuration.
type Params struct {
	EnableRDSEED  bool
	EnableRDRAND  bool
	EnableXSTORE  bool
	RDSEEDRetries int
	RDRANDRetries int
	XstoreQuality int
	Prefer        Preference
}

// Result is the outcome of a successful CollectCPUEntropy call: the
// bytes produced and a label naming which instruction produced them.
type Result struct {
	Bytes       []byte
	SourceLabel string
}

// HasRDRAND reports whether the running CPU supports RDRAND (CPUID
// leaf 1, ECX bit 30).
func HasRDRAND() bool { return hasRDRANDPlatform() }

// HasRDSEED reports whether the running CPU supports RDSEED (CPUID
// leaf 7 subleaf 0, EBX bit 18).
func HasRDSEED() bool { return hasRDSEEDPlatform() }

// HasXSTORE reports whether the running CPU supports VIA PadLock
// XSTORE (Centaur CPUID leaf 0xC0000001, EDX bits 2 and 3).
func HasXSTORE() bool { return hasXSTOREPlatform() }

// CollectRDSEED fills count bytes from RDSEED, pulling 8 bytes at a
// time and retrying each word up to retries times.
func CollectRDSEED(count, retries int) ([]byte, error) {
	if !HasRDSEED() {
		return nil, merr.NoEntropy("RDSEED not supported on this CPU")
	}
	return collectWords(count, func() (uint64, bool) {
		return rdseed64Platform(retries)
	}, "RDSEED", retries)
}

// CollectRDRAND fills count bytes from RDRAND, pulling 8 bytes at a
// time and retrying each word up to retries times.
func CollectRDRAND(count, retries int) ([]byte, error) {
	if !HasRDRAND() {
		return nil, merr.NoEntropy("RDRAND not supported on this CPU")
	}
	return collectWords(count, func() (uint64, bool) {
		return rdrand64Platform(retries)
	}, "RDRAND", retries)
}

func collectWords(count int, pull func() (uint64, bool), name string, retries int) ([]byte, error) {
	buf := make([]byte, count)
	offset := 0
	for offset < count {
		val, ok := pull()
		if !ok {
			return nil, merr.NoEntropy("%s failed after %d retries", name, retries)
		}
		word := uint64ToBytes(val)
		toCopy := min(count-offset, 8)
		copy(buf[offset:offset+toCopy], word[:toCopy])
		offset += toCopy
	}
	return buf, nil
}

func uint64ToBytes(v uint64) [8]byte {
	var b [8]byte
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// CollectXSTORE fills count bytes from VIA PadLock XSTORE at the given
// quality factor (0=raw, 3=max von Neumann whitening), zeroizing its
// 8-byte scratch buffer between words.
func CollectXSTORE(count, quality int) ([]byte, error) {
	if !HasXSTORE() {
		return nil, merr.NoEntropy("XSTORE not supported on this CPU")
	}
	buf := make([]byte, count)
	offset := 0
	for offset < count {
		var tmp [8]byte
		if !xstoreBytesPlatform(&tmp, quality) {
			zeroize.Bytes(tmp[:])
			return nil, merr.NoEntropy("XSTORE instruction failed")
		}
		toCopy := min(count-offset, 8)
		copy(buf[offset:offset+toCopy], tmp[:toCopy])
		zeroize.Bytes(tmp[:])
		offset += toCopy
	}
	return buf, nil
}

// instructionOrder rotates the preferred instruction to the front and
// appends the remaining two in a fixed secondary order, filtering by
// each instruction's enable flag.
func instructionOrder(p Params) []Preference {
	var all [3]Preference
	switch p.Prefer {
	case PreferRDRAND:
		all = [3]Preference{PreferRDRAND, PreferRDSEED, PreferXSTORE}
	case PreferXSTORE:
		all = [3]Preference{PreferXSTORE, PreferRDSEED, PreferRDRAND}
	default: // PreferRDSEED
		all = [3]Preference{PreferRDSEED, PreferRDRAND, PreferXSTORE}
	}

	order := make([]Preference, 0, 3)
	for _, pref := range all {
		switch pref {
		case PreferRDSEED:
			if p.EnableRDSEED {
				order = append(order, pref)
			}
		case PreferRDRAND:
			if p.EnableRDRAND {
				order = append(order, pref)
			}
		case PreferXSTORE:
			if p.EnableXSTORE {
				order = append(order, pref)
			}
		}
	}
	return order
}

func tryInstruction(pref Preference, count int, p Params) ([]byte, string, error) {
	switch pref {
	case PreferRDSEED:
		b, err := CollectRDSEED(count, p.RDSEEDRetries)
		return b, "RDSEED", err
	case PreferRDRAND:
		b, err := CollectRDRAND(count, p.RDRANDRetries)
		return b, "RDRAND", err
	case PreferXSTORE:
		b, err := CollectXSTORE(count, p.XstoreQuality)
		return b, "XSTORE", err
	default:
		return nil, "", merr.NoEntropy("unknown CPU RNG preference")
	}
}

// CollectCPUEntropy collects count bytes using the configured
// instruction preference and fallback order, returning which
// instruction actually succeeded. It fails only if every enabled
// instruction fails, or none are enabled.
func CollectCPUEntropy(count int, p Params) (Result, error) {
	order := instructionOrder(p)
	if len(order) == 0 {
		return Result{}, merr.NoEntropy("all CPU RNG instructions are disabled")
	}

	var lastErr error
	for _, pref := range order {
		bytes, label, err := tryInstruction(pref, count, p)
		if err == nil {
			return Result{Bytes: bytes, SourceLabel: label}, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = merr.NoEntropy("no CPU RNG instruction succeeded")
	}
	return Result{}, lastErr
}

// CollectCPUEntropyBestEffort collects count bytes of CPU entropy,
// returning an empty slice instead of an error on failure.
func CollectCPUEntropyBestEffort(count int, p Params) []byte {
	result, err := CollectCPUEntropy(count, p)
	if err != nil {
		return nil
	}
	return result.Bytes
}

// CollectCPUEntropyStandalone collects count bytes for the case where
// CPU RNG is used as a standalone entropy source rather than one input
// among several. When oversample is greater than 1 it pulls
// count*oversample raw bytes and compresses them through the same
// BLAKE2b mix / ChaCha20 expand pipeline the mixer and fallback paths
// use, trading raw instruction throughput for whitening. oversample<=1
// collects exactly count bytes with no post-processing.
func CollectCPUEntropyStandalone(count, oversample int, p Params) (Result, error) {
	if oversample <= 1 {
		return CollectCPUEntropy(count, p)
	}

	rawCount := count * oversample
	result, err := CollectCPUEntropy(rawCount, p)
	if err != nil {
		return Result{}, err
	}

	seed := mixer.Mix([]mixer.Input{{Label: "cpu-rng-oversample", Data: result.Bytes}})
	output := expander.Expand(seed, count)
	zeroize.Bytes(result.Bytes)

	return Result{Bytes: output, SourceLabel: result.SourceLabel}, nil
}

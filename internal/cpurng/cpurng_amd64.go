//go:build amd64

package cpurng

import "sync/atomic"

// Tri-state capability cell values: 0 = unchecked, 1 = absent,
// 2 = present. Stored in a plain atomic.Uint32 rather than a narrower
// type because every racing goroutine that probes the same capability
// computes the same terminal value, so ordinary atomic load/store is
// sufficient to make the cache idempotent and race-free.
const (
	capUnchecked uint32 = iota
	capAbsent
	capPresent
)

var (
	rdrandCap atomic.Uint32
	rdseedCap atomic.Uint32
	xstoreCap atomic.Uint32
)

// Declared in cpurng_amd64.s.
func cpuidAsm(eaxIn, ecxIn uint32) (eaxOut, ebxOut, ecxOut, edxOut uint32)
func rdrand64Once() (val uint64, ok bool)
func rdseed64Once() (val uint64, ok bool)
func xstoreOnce(ptr *byte, quality uint64) (ok bool)

func storeCapability(cell *atomic.Uint32, present bool) {
	if present {
		cell.Store(capPresent)
	} else {
		cell.Store(capAbsent)
	}
}

func hasRDRANDPlatform() bool {
	if cached := rdrandCap.Load(); cached != capUnchecked {
		return cached == capPresent
	}
	_, _, ecx, _ := cpuidAsm(1, 0)
	present := (ecx>>30)&1 == 1
	storeCapability(&rdrandCap, present)
	return present
}

func hasRDSEEDPlatform() bool {
	if cached := rdseedCap.Load(); cached != capUnchecked {
		return cached == capPresent
	}
	_, ebx, _, _ := cpuidAsm(7, 0)
	present := (ebx>>18)&1 == 1
	storeCapability(&rdseedCap, present)
	return present
}

func hasXSTOREPlatform() bool {
	if cached := xstoreCap.Load(); cached != capUnchecked {
		return cached == capPresent
	}

	maxCentaur, _, _, _ := cpuidAsm(0xC0000000, 0)
	if maxCentaur < 0xC0000001 {
		xstoreCap.Store(capAbsent)
		return false
	}

	_, _, _, edx := cpuidAsm(0xC0000001, 0)
	present := edx&0b1100 == 0b1100 // bits 2 (present) and 3 (enabled)
	storeCapability(&xstoreCap, present)
	return present
}

func rdrand64Platform(retries int) (uint64, bool) {
	for i := 0; i < retries; i++ {
		if val, ok := rdrand64Once(); ok {
			return val, true
		}
	}
	return 0, false
}

func rdseed64Platform(retries int) (uint64, bool) {
	for i := 0; i < retries; i++ {
		if val, ok := rdseed64Once(); ok {
			return val, true
		}
	}
	return 0, false
}

func xstoreBytesPlatform(buf *[8]byte, quality int) bool {
	return xstoreOnce(&buf[0], uint64(quality))
}

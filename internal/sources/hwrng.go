// Package sources implements the individual entropy adapters the
// selector and fallback compositor draw from: the hardware RNG
// device, haveged-fed /dev/random, raw /dev/urandom, procfs jitter
// inputs, CPU timing jitter, and (when present) a TPM.
package sources

import (
	"io"
	"os"

	"mixrand/internal/merr"
)

// ReadHWRNG reads count bytes from /dev/hwrng, the kernel's generic
// hardware RNG framework device. It fails fast with a NoEntropy error
// when the device is absent, which is the common case on systems
// without a dedicated hardware RNG chip.
func ReadHWRNG(count int) ([]byte, error) {
	f, err := os.Open("/dev/hwrng")
	if err != nil {
		return nil, merr.NoEntropy("/dev/hwrng not available: %s", err)
	}
	defer f.Close()

	buf := make([]byte, count)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, merr.IOf("reading /dev/hwrng: %s", err)
	}
	return buf, nil
}

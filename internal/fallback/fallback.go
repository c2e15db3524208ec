// Package fallback implements the last-resort entropy source: mixing
// /dev/urandom, procfs counters, CPU timing jitter, and best-effort
// CPU hardware RNG output through the BLAKE2b mixer and ChaCha20
// expander. It is the one source in the selector's chain that cannot
// itself fail, short of /dev/urandom being unreadable.
package fallback

import (
	"mixrand/internal/cpurng"
	"mixrand/internal/expander"
	"mixrand/internal/mixer"
	"mixrand/internal/security"
	"mixrand/internal/sources"
	"mixrand/internal/zeroize"
)

const jitterSampleCount = 64

// Generate produces count bytes by mixing /dev/urandom (32 bytes,
// required), /proc/interrupts, /proc/stat, /proc/diskstats
// (best-effort, empty on failure), 64 CPU jitter timing samples, and
// best-effort CPU hardware RNG output (fallbackMixBytes bytes) through
// BLAKE2b-256 and expanding with ChaCha20.
// Every intermediate buffer is zeroized before returning.
func Generate(count int, fallbackMixBytes int, cpuParams cpurng.Params) ([]byte, error) {
	urandomSeed, err := sources.ReadURandom(32)
	if err != nil {
		return nil, err
	}

	interrupts := sources.ReadInterrupts()
	stat := sources.ReadStat()
	diskstats := sources.ReadDiskstats()
	jitter := sources.CollectJitterSamples(jitterSampleCount)
	cpuEntropy := sources.CollectCPUEntropyBestEffort(fallbackMixBytes, cpuParams)

	mixed := mixer.Mix([]mixer.Input{
		{Label: "urandom", Data: urandomSeed},
		{Label: "interrupts", Data: interrupts},
		{Label: "stat", Data: stat},
		{Label: "diskstats", Data: diskstats},
		{Label: "jitter", Data: jitter},
		{Label: "cpu-rng", Data: cpuEntropy},
	})

	// The mixed seed is the one buffer in this path that is genuine key
	// material rather than a disposable sample: lock it out of swap and
	// guarantee it is wiped on every return path, including a panic.
	seed, err := security.FromBytes(mixed[:])
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()

	var seedArr [32]byte
	copy(seedArr[:], seed.Bytes())
	output := expander.Expand(seedArr, count)
	zeroize.Array32(&seedArr)

	zeroize.Bytes(urandomSeed)
	zeroize.Bytes(interrupts)
	zeroize.Bytes(stat)
	zeroize.Bytes(diskstats)
	zeroize.Bytes(jitter)
	zeroize.Bytes(cpuEntropy)

	return output, nil
}

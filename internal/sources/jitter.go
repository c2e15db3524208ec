package sources

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// CollectJitterSamples gathers count CLOCK_MONOTONIC timestamps,
// separated by a data-dependent busy-spin intended to amplify
// scheduler, cache, and interrupt jitter between samples. It never
// fails: a clock_gettime error is treated as a zero timestamp, since
// the samples feed a mixer input rather than a measurement the caller
// reasons about numerically.
func CollectJitterSamples(count int) []byte {
	samples := make([]byte, 0, count*8)
	var accumulator uint64

	for i := 0; i < count; i++ {
		spinCount := 1000 + (accumulator & 0x1FF)
		x := uint64(i) * 0x6C62272E07BB0142
		for s := uint64(0); s < spinCount; s++ {
			x = x*0x5DEECE66D + 0xB
		}
		sinkJitterSpin(x)

		ts := clockGettimeNS()
		accumulator += ts

		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], ts)
		samples = append(samples, b[:]...)
	}

	return samples
}

// sinkJitterSpin exists so the compiler cannot prove the busy-spin
// loop above has no observable effect and eliminate it.
var jitterSink uint64

func sinkJitterSpin(x uint64) { jitterSink = x }

func clockGettimeNS() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}

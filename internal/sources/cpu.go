package sources

import "mixrand/internal/cpurng"

// CollectCPUEntropyBestEffort collects count bytes of CPU hardware RNG
// entropy for use as one input among several (the fallback
// compositor's "cpu-rng" mixer input), returning an empty slice
// instead of an error when no instruction is enabled or available.
// This is a thin re-export so callers that only need the fallback's
// plain, non-oversampled collection path don't need to import cpurng
// directly.
func CollectCPUEntropyBestEffort(count int, p cpurng.Params) []byte {
	return cpurng.CollectCPUEntropyBestEffort(count, p)
}

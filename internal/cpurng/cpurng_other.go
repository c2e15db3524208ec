//go:build !amd64

package cpurng

// On non-x86_64 targets every probe reports absent and every
// primitive reports failure without executing, matching the reference
// implementation's "not available on this architecture" policy.

func hasRDRANDPlatform() bool { return false }
func hasRDSEEDPlatform() bool { return false }
func hasXSTOREPlatform() bool { return false }

func rdrand64Platform(retries int) (uint64, bool) { return 0, false }
func rdseed64Platform(retries int) (uint64, bool) { return 0, false }

func xstoreBytesPlatform(buf *[8]byte, quality int) bool { return false }

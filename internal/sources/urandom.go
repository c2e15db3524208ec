package sources

import (
	"io"
	"os"

	"mixrand/internal/merr"
)

// ReadURandom reads count bytes from /dev/urandom. Unlike the other
// adapters this one is treated as an unconditional primitive rather
// than a fallible source: the fallback compositor hard-fails if this
// read fails, since /dev/urandom is always present and readable on a
// sane Linux system.
func ReadURandom(count int) ([]byte, error) {
	f, err := os.Open("/dev/urandom")
	if err != nil {
		return nil, merr.IOf("/dev/urandom not available: %s", err)
	}
	defer f.Close()

	buf := make([]byte, count)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, merr.IOf("reading /dev/urandom: %s", err)
	}
	return buf, nil
}

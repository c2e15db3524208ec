// Package zeroize erases buffers that held entropy or key material.
package zeroize

import "runtime"

// Bytes overwrites every byte of buf with zero in a plain loop, then
// calls runtime.KeepAlive so buf stays reachable until the loop has
// run. Go has no volatile store, and no separate memory fence
// instruction is issued. It is a no-op on an empty or nil buffer.
func Bytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// Array32 zeroizes a fixed-size 32-byte buffer in place, for callers
// that carry a mixer seed or expander key as an array rather than a
// slice.
func Array32(buf *[32]byte) {
	if buf == nil {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}

// Package expander turns a 32-byte mixer seed into an arbitrary-length
// deterministic byte stream via ChaCha20 keyed by the seed with a zero
// nonce.
package expander

import "golang.org/x/crypto/chacha20"

// Expand produces count deterministic bytes keyed by seed. Expand(seed,
// n) is always a prefix of Expand(seed, n+k) for any k >= 0: both calls
// key the same cipher at the same zero nonce, so the keystream is
// identical up to the shorter length.
func Expand(seed [32]byte, count int) []byte {
	out := make([]byte, count)
	if count == 0 {
		return out
	}

	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// NewUnauthenticatedCipher only fails on malformed key/nonce
		// lengths, both of which are fixed-size here.
		panic(err)
	}
	cipher.XORKeyStream(out, out)
	return out
}

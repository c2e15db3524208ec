package expander

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}
	require.Equal(t, Expand(seed, 64), Expand(seed, 64))
}

func TestDifferentSeedsDiffer(t *testing.T) {
	var a, b [32]byte
	b[0] = 1
	require.False(t, bytes.Equal(Expand(a, 32), Expand(b, 32)))
}

func TestStreamConsistency(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i * 3)
	}
	short := Expand(seed, 16)
	long := Expand(seed, 16+48)
	require.True(t, bytes.Equal(short, long[:16]))
}

func TestZeroLength(t *testing.T) {
	var seed [32]byte
	out := Expand(seed, 0)
	require.Len(t, out, 0)
}

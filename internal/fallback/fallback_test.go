package fallback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mixrand/internal/cpurng"
)

func TestGenerateProducesRequestedLength(t *testing.T) {
	out, err := Generate(64, 32, cpurng.Params{})
	require.NoError(t, err)
	require.Len(t, out, 64)
}

func TestGenerateZeroLength(t *testing.T) {
	out, err := Generate(0, 32, cpurng.Params{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGenerateIsNotConstant(t *testing.T) {
	a, err := Generate(32, 32, cpurng.Params{})
	require.NoError(t, err)
	b, err := Generate(32, 32, cpurng.Params{})
	require.NoError(t, err)
	require.NotEqual(t, a, b, "successive fallback draws must not collide")
}

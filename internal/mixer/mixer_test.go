package mixer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mixrand/internal/expander"
)

func TestDeterministic(t *testing.T) {
	in := []Input{{"urandom", []byte{1, 2, 3}}, {"jitter", []byte{4, 5, 6}}}
	require.Equal(t, Mix(in), Mix(in))
}

func TestDifferingInputsDiffer(t *testing.T) {
	a := []Input{{"urandom", []byte{1, 2, 3}}}
	b := []Input{{"urandom", []byte{1, 2, 4}}}
	require.NotEqual(t, Mix(a), Mix(b))
}

func TestDomainSeparation(t *testing.T) {
	data := []byte{9, 9, 9}
	a := Mix([]Input{{"urandom", data}})
	b := Mix([]Input{{"jitter", data}})
	require.NotEqual(t, a, b)
}

func TestEmptyInputsWellDefined(t *testing.T) {
	out := Mix(nil)
	require.NotEqual(t, [32]byte{}, out)
	require.Equal(t, Mix(nil), Mix([]Input{}))
}

func TestOrderSensitivity(t *testing.T) {
	a := []Input{{"urandom", []byte{1}}, {"jitter", []byte{2}}}
	b := []Input{{"jitter", []byte{2}}, {"urandom", []byte{1}}}
	require.NotEqual(t, Mix(a), Mix(b))
}

func TestScenario1DeterministicMixExpand(t *testing.T) {
	urandom := make([]byte, 32)
	jitter := make([]byte, 512)
	for i := range jitter {
		jitter[i] = 1
	}

	seed := Mix([]Input{{"urandom", urandom}, {"jitter", jitter}})
	again := Mix([]Input{{"urandom", urandom}, {"jitter", jitter}})
	require.Equal(t, seed, again)

	out := expander.Expand(seed, 16)
	require.Len(t, out, 16)
	require.Equal(t, out, expander.Expand(again, 16))

	urandom[0] = 0xFF
	changed := Mix([]Input{{"urandom", urandom}, {"jitter", jitter}})
	require.NotEqual(t, seed, changed)
}

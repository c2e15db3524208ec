package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mixrand/internal/expander"
)

func allZeros() *[SampleSize]byte {
	return &[SampleSize]byte{}
}

func allAA() *[SampleSize]byte {
	var data [SampleSize]byte
	for i := range data {
		data[i] = 0xAA
	}
	return &data
}

func TestMonobitZerosFails(t *testing.T) {
	result := FipsMonobit(allZeros())
	require.False(t, result.Passed)
	require.Equal(t, 0.0, result.Value)
}

func TestMonobitAAPasses(t *testing.T) {
	result := FipsMonobit(allAA())
	require.True(t, result.Passed)
	require.Equal(t, 10000.0, result.Value)
}

func TestPokerZerosFails(t *testing.T) {
	require.False(t, FipsPoker(allZeros()).Passed)
}

func TestPokerAAFails(t *testing.T) {
	require.False(t, FipsPoker(allAA()).Passed)
}

func TestRunsZerosFails(t *testing.T) {
	require.False(t, FipsRuns(allZeros()).Passed)
}

func TestRunsAAFails(t *testing.T) {
	require.False(t, FipsRuns(allAA()).Passed)
}

func TestLongRunsZerosFails(t *testing.T) {
	result := FipsLongRuns(allZeros())
	require.False(t, result.Passed)
	require.Equal(t, 20000.0, result.Value)
}

func TestLongRunsAAPasses(t *testing.T) {
	result := FipsLongRuns(allAA())
	require.True(t, result.Passed)
	require.Equal(t, 1.0, result.Value)
}

func TestShannonUniform(t *testing.T) {
	data := make([]byte, 256*100)
	for i := range data {
		data[i] = byte(i % 256)
	}
	s := ShannonEntropy(data)
	require.InDelta(t, 8.0, s, 0.01)
}

func TestShannonConstant(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = 42
	}
	require.Equal(t, 0.0, ShannonEntropy(data))
}

func TestMinEntropyUniform(t *testing.T) {
	data := make([]byte, 256*100)
	for i := range data {
		data[i] = byte(i % 256)
	}
	require.InDelta(t, 8.0, MinEntropy(data), 0.01)
}

func TestMeanByteUniform(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	require.InDelta(t, 127.5, MeanByte(data), 0.01)
}

func TestSerialCorrelationConstant(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = 42
	}
	require.Equal(t, 0.0, SerialCorrelation(data))
}

func TestSerialCorrelationAlternating(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		if i%2 == 0 {
			data[i] = 0
		} else {
			data[i] = 255
		}
	}
	s := SerialCorrelation(data)
	require.Less(t, s, -0.9)
}

func TestNormalCDF(t *testing.T) {
	require.InDelta(t, 0.5, NormalCDF(0.0), 0.001)
	require.InDelta(t, 1.0, NormalCDF(5.0), 0.001)
	require.Less(t, NormalCDF(-5.0), 0.001)
}

// TestFipsSuiteOnStreamCipherOutputLooksRandom runs the battery against
// ChaCha20 keystream bytes. It does not assert on the pass/fail verdict
// of any individual FIPS test, since a single fixed seed has a small
// but real chance of landing outside the published bounds; instead it
// checks the estimators a correct stream cipher should satisfy
// regardless of seed.
func TestFipsSuiteOnStreamCipherOutputLooksRandom(t *testing.T) {
	seed := [32]byte{42}
	data := expander.Expand(seed, SampleSize)
	var sample [SampleSize]byte
	copy(sample[:], data)

	result := FipsSuite(&sample)
	require.NotEmpty(t, result.Monobit.Detail)
	require.NotEmpty(t, result.Poker.Detail)
	require.NotEmpty(t, result.Runs.Detail)
	require.NotEmpty(t, result.LongRuns.Detail)

	est := EntropyEstimatesOf(data)
	require.InDelta(t, 8.0, est.Shannon, 0.2)
	require.InDelta(t, 127.5, est.Mean, 15.0)
}

func TestChiSquarePZeroDF(t *testing.T) {
	require.Equal(t, 0.0, ChiSquareP(10.0, 0.0))
}

func TestEntropyEstimatesOfEmpty(t *testing.T) {
	est := EntropyEstimatesOf(nil)
	require.Equal(t, EntropyEstimates{}, est)
}

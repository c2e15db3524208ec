package check

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mixrand/internal/cpurng"
	"mixrand/internal/merr"
)

func TestFormatDurationSeconds(t *testing.T) {
	require.Equal(t, "45s", formatDuration(45*time.Second))
}

func TestFormatDurationMinutes(t *testing.T) {
	require.Equal(t, "2m", formatDuration(2*time.Minute))
	require.Equal(t, "2m 5s", formatDuration(2*time.Minute+5*time.Second))
}

func TestFormatDurationHours(t *testing.T) {
	require.Equal(t, "1h", formatDuration(time.Hour))
	require.Equal(t, "1h 30m", formatDuration(time.Hour+30*time.Minute))
}

func TestInterruptedMessageUsesAsciiHyphen(t *testing.T) {
	require.Equal(t, "\nInterrupted after 45s - printing partial results\n\n", interruptedMessage(45*time.Second))
}

func TestFormatThroughput(t *testing.T) {
	require.Equal(t, "500 B/s", formatThroughput(500))
	require.Equal(t, "1.50 KB/s", formatThroughput(1500))
	require.Equal(t, "2.00 MB/s", formatThroughput(2_000_000))
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "500 B", formatBytes(500))
	require.Equal(t, "1.50 KB", formatBytes(1500))
	require.Equal(t, "2.00 MB", formatBytes(2_000_000))
}

func TestEqualFoldCaseInsensitive(t *testing.T) {
	require.True(t, equalFold("RDSEED", "rdseed"))
	require.False(t, equalFold("rdseed", "rdrand"))
}

func TestFilterByNameNilKeepsAll(t *testing.T) {
	kinds := []sourceKind{sourceHWRNG, sourceURandom}
	require.Equal(t, kinds, filterByName(kinds, nil))
}

func TestFilterByNameFilters(t *testing.T) {
	kinds := []sourceKind{sourceHWRNG, sourceURandom, sourceFallback}
	filtered := filterByName(kinds, []string{"urandom"})
	require.Equal(t, []sourceKind{sourceURandom}, filtered)
}

func TestSourceStatsAveragesZeroSamples(t *testing.T) {
	s := &sourceStats{}
	require.Equal(t, 0.0, s.avg(123.0))
	require.Equal(t, 0.0, s.fipsPassPct(5))
	require.Equal(t, 0.0, s.throughputBytesPerSec())
}

func TestPrintFinalReportSingleSourceNoComparison(t *testing.T) {
	entries := []sourceStatEntry{{kind: sourceURandom, stats: &sourceStats{totalSamples: 1, totalBytes: 32}}}
	var buf bytes.Buffer
	printFinalReport(&buf, entries, false)
	require.Contains(t, buf.String(), "urandom")
	require.NotContains(t, buf.String(), "Comparison")
}

func TestPrintFinalReportMultiSourceHasComparisonAndVerdict(t *testing.T) {
	entries := []sourceStatEntry{
		{kind: sourceURandom, stats: &sourceStats{totalSamples: 1, totalBytes: 32, totalTime: time.Millisecond, minEntropySum: 7.9}},
		{kind: sourceFallback, stats: &sourceStats{totalSamples: 1, totalBytes: 32, totalTime: 2 * time.Millisecond, minEntropySum: 7.5}},
	}
	var buf bytes.Buffer
	printFinalReport(&buf, entries, false)
	out := buf.String()
	require.Contains(t, out, "Comparison")
	require.Contains(t, out, "Verdict:")
	require.Contains(t, out, "Highest throughput")
	require.Contains(t, out, "Highest min-entropy")
}

func TestJoinComma(t *testing.T) {
	require.Equal(t, "a, b, c", joinComma([]string{"a", "b", "c"}))
	require.Equal(t, "", joinComma(nil))
}

func TestCollectSampleUnknownKindIsInvalidArgs(t *testing.T) {
	_, err := collectSample(sourceKind(99), 32, cpurng.Params{}, 32)
	require.Error(t, err)
	require.Equal(t, merr.KindInvalidArgs, merr.KindOf(err))
}

// Package check implements the statistical-check subcommand: it
// probes every entropy source for availability, round-robins samples
// across whichever sources respond, scores each sample against the
// FIPS 140-2 battery and the entropy estimators, and prints a
// progress table followed by a final comparison report.
package check

import (
	"fmt"
	"io"
	"os"
	"time"

	"mixrand/internal/cpurng"
	"mixrand/internal/fallback"
	"mixrand/internal/lifecycle"
	"mixrand/internal/merr"
	"mixrand/internal/sources"
	"mixrand/internal/stats"
)

// sourceKind names one of the candidate entropy sources the check
// subcommand can probe and sample.
type sourceKind int

const (
	sourceHWRNG sourceKind = iota
	sourceRDSEED
	sourceRDRAND
	sourceXstore
	sourceHaveged
	sourceURandom
	sourceFallback
)

var allSourceKinds = []sourceKind{
	sourceHWRNG, sourceRDSEED, sourceRDRAND, sourceXstore,
	sourceHaveged, sourceURandom, sourceFallback,
}

func (k sourceKind) name() string {
	switch k {
	case sourceHWRNG:
		return "hwrng"
	case sourceRDSEED:
		return "rdseed"
	case sourceRDRAND:
		return "rdrand"
	case sourceXstore:
		return "xstore"
	case sourceHaveged:
		return "haveged"
	case sourceURandom:
		return "urandom"
	case sourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

func (k sourceKind) description() string {
	switch k {
	case sourceHWRNG:
		return "Hardware RNG (/dev/hwrng)"
	case sourceRDSEED:
		return "CPU RDSEED instruction"
	case sourceRDRAND:
		return "CPU RDRAND instruction"
	case sourceXstore:
		return "VIA PadLock XSTORE instruction"
	case sourceHaveged:
		return "haveged (/dev/random)"
	case sourceURandom:
		return "/dev/urandom"
	case sourceFallback:
		return "Fallback (urandom + procfs + jitter + cpu-rng)"
	default:
		return ""
	}
}

// Args configures one run of the check subcommand.
type Args struct {
	Duration       time.Duration
	SampleSize     int
	ReportInterval time.Duration
	Sources        []string // optional case-insensitive name filter; nil means all probed sources
}

// sourceStats accumulates the running totals for one source across the
// whole check run.
type sourceStats struct {
	totalSamples     uint64
	totalBytes       uint64
	totalTime        time.Duration
	fipsMonobitPass  uint64
	fipsPokerPass    uint64
	fipsRunsPass     uint64
	fipsLongRunsPass uint64
	fipsAllPass      uint64
	shannonSum       float64
	minEntropySum    float64
	chiSquareSum     float64
	meanSum          float64
	serialCorrSum    float64
	errors           uint64
}

func (s *sourceStats) fipsPassPct(passCount uint64) float64 {
	if s.totalSamples == 0 {
		return 0.0
	}
	return 100.0 * float64(passCount) / float64(s.totalSamples)
}

func (s *sourceStats) avg(sum float64) float64 {
	if s.totalSamples == 0 {
		return 0.0
	}
	return sum / float64(s.totalSamples)
}

func (s *sourceStats) throughputBytesPerSec() float64 {
	secs := s.totalTime.Seconds()
	if secs < 2.220446049250313e-16 {
		return 0.0
	}
	return float64(s.totalBytes) / secs
}

func collectSample(kind sourceKind, count int, cpuParams cpurng.Params, fallbackMixBytes int) ([]byte, error) {
	switch kind {
	case sourceHWRNG:
		return sources.ReadHWRNG(count)
	case sourceRDSEED:
		return cpurng.CollectRDSEED(count, cpuParams.RDSEEDRetries)
	case sourceRDRAND:
		return cpurng.CollectRDRAND(count, cpuParams.RDRANDRetries)
	case sourceXstore:
		return cpurng.CollectXSTORE(count, cpuParams.XstoreQuality)
	case sourceHaveged:
		return sources.ReadHaveged(count)
	case sourceURandom:
		return sources.ReadURandom(count)
	case sourceFallback:
		return fallback.Generate(count, fallbackMixBytes, cpuParams)
	default:
		return nil, merr.InvalidArgs("unknown source kind")
	}
}

// probeSources tries a 32-byte sample from every candidate source and
// returns the ones that succeeded, in declaration order.
func probeSources(cpuParams cpurng.Params, fallbackMixBytes int, stderr io.Writer) []sourceKind {
	var available []sourceKind
	for _, kind := range allSourceKinds {
		fmt.Fprintf(stderr, "  %-10s ... ", kind.name())
		if _, err := collectSample(kind, 32, cpuParams, fallbackMixBytes); err != nil {
			fmt.Fprintf(stderr, "[skip] %s\n", err)
			continue
		}
		fmt.Fprintln(stderr, "[ok]")
		available = append(available, kind)
	}
	return available
}

func filterByName(kinds []sourceKind, names []string) []sourceKind {
	if names == nil {
		return kinds
	}
	var out []sourceKind
	for _, k := range kinds {
		for _, n := range names {
			if equalFold(n, k.name()) {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func formatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		m, s := secs/60, secs%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		h, m := secs/3600, (secs%3600)/60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// interruptedMessage formats the message printed when a check run is
// cut short by a shutdown signal partway through.
func interruptedMessage(elapsed time.Duration) string {
	return fmt.Sprintf("\nInterrupted after %s - printing partial results\n\n", formatDuration(elapsed))
}

func formatThroughput(bytesPerSec float64) string {
	switch {
	case bytesPerSec >= 1_000_000.0:
		return fmt.Sprintf("%.2f MB/s", bytesPerSec/1_000_000.0)
	case bytesPerSec >= 1_000.0:
		return fmt.Sprintf("%.2f KB/s", bytesPerSec/1_000.0)
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSec)
	}
}

func formatBytes(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2f MB", float64(n)/1_000_000.0)
	case n >= 1_000:
		return fmt.Sprintf("%.2f KB", float64(n)/1_000.0)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

type sourceStatEntry struct {
	kind  sourceKind
	stats *sourceStats
}

func printProgress(w io.Writer, entries []sourceStatEntry, elapsed, total time.Duration, doFIPS bool) {
	pct := 100.0 * elapsed.Seconds() / total.Seconds()
	fmt.Fprintf(w, "--- Progress (%s / %s, %.1f%%) ---\n", formatDuration(elapsed), formatDuration(total), pct)

	if doFIPS {
		fmt.Fprintf(w, "%-12s %8s %10s %8s %12s %7s\n", "Source", "Samples", "FIPS Pass%", "Shannon", "Throughput", "Errors")
	} else {
		fmt.Fprintf(w, "%-12s %8s %8s %12s %7s\n", "Source", "Samples", "Shannon", "Throughput", "Errors")
	}

	for _, e := range entries {
		throughput := formatThroughput(e.stats.throughputBytesPerSec())
		shannon := e.stats.avg(e.stats.shannonSum)
		if doFIPS {
			fipsPct := e.stats.fipsPassPct(e.stats.fipsAllPass)
			fmt.Fprintf(w, "%-12s %8d %9.1f%% %8.3f %12s %7d\n",
				e.kind.name(), e.stats.totalSamples, fipsPct, shannon, throughput, e.stats.errors)
		} else {
			fmt.Fprintf(w, "%-12s %8d %8.3f %12s %7d\n",
				e.kind.name(), e.stats.totalSamples, shannon, throughput, e.stats.errors)
		}
	}
	fmt.Fprintln(w)
}

func printFinalReport(w io.Writer, entries []sourceStatEntry, doFIPS bool) {
	for _, e := range entries {
		s := e.stats
		fmt.Fprintf(w, "--- %s (%s) ---\n", e.kind.name(), e.kind.description())
		fmt.Fprintf(w, "  Samples: %d | Bytes: %s | Throughput: %s | Errors: %d\n",
			s.totalSamples, formatBytes(s.totalBytes), formatThroughput(s.throughputBytesPerSec()), s.errors)

		if doFIPS && s.totalSamples > 0 {
			fmt.Fprintf(w, "  FIPS 140-2:  Monobit %.1f%%  Poker %.1f%%  Runs %.1f%%  Long Runs %.1f%%\n",
				s.fipsPassPct(s.fipsMonobitPass), s.fipsPassPct(s.fipsPokerPass),
				s.fipsPassPct(s.fipsRunsPass), s.fipsPassPct(s.fipsLongRunsPass))
		}

		if s.totalSamples > 0 {
			chi := s.avg(s.chiSquareSum)
			p := stats.ChiSquareP(chi, 255.0)
			fmt.Fprintf(w, "  Entropy:     Shannon %.3f   Min-ent %.3f  Chi-sq %.1f (p=%.2f)\n",
				s.avg(s.shannonSum), s.avg(s.minEntropySum), chi, p)
			fmt.Fprintf(w, "               Mean %.2f     SerCorr %.3f\n", s.avg(s.meanSum), s.avg(s.serialCorrSum))
		}
		fmt.Fprintln(w)
	}

	if len(entries) <= 1 {
		return
	}

	fmt.Fprintln(w, "--- Comparison ---")
	if doFIPS {
		fmt.Fprintf(w, "%-12s %12s %10s %8s %8s\n", "Source", "Throughput", "FIPS Pass%", "Shannon", "Min-ent")
	} else {
		fmt.Fprintf(w, "%-12s %12s %8s %8s\n", "Source", "Throughput", "Shannon", "Min-ent")
	}

	for _, e := range entries {
		s := e.stats
		throughput := formatThroughput(s.throughputBytesPerSec())
		shannon := s.avg(s.shannonSum)
		minEnt := s.avg(s.minEntropySum)
		if doFIPS {
			fipsPct := s.fipsPassPct(s.fipsAllPass)
			fmt.Fprintf(w, "%-12s %12s %9.1f%% %8.3f %8.3f\n", e.kind.name(), throughput, fipsPct, shannon, minEnt)
		} else {
			fmt.Fprintf(w, "%-12s %12s %8.3f %8.3f\n", e.kind.name(), throughput, shannon, minEnt)
		}
	}
	fmt.Fprintln(w)

	var bestThroughput, bestMinEntropy *sourceStatEntry
	for i := range entries {
		e := &entries[i]
		if e.stats.totalSamples == 0 {
			continue
		}
		if bestThroughput == nil || e.stats.throughputBytesPerSec() > bestThroughput.stats.throughputBytesPerSec() {
			bestThroughput = e
		}
		if bestMinEntropy == nil || e.stats.avg(e.stats.minEntropySum) > bestMinEntropy.stats.avg(bestMinEntropy.stats.minEntropySum) {
			bestMinEntropy = e
		}
	}

	fmt.Fprintln(w, "Verdict:")
	if bestThroughput != nil {
		fmt.Fprintf(w, "  Highest throughput:   %s (%s)\n", bestThroughput.kind.name(), formatThroughput(bestThroughput.stats.throughputBytesPerSec()))
	}
	if bestMinEntropy != nil {
		fmt.Fprintf(w, "  Highest min-entropy:  %s (%.3f bits/byte)\n", bestMinEntropy.kind.name(), bestMinEntropy.stats.avg(bestMinEntropy.stats.minEntropySum))
	}
}

// Run executes the check loop: it probes sources, round-robins samples
// across whichever are available until args.Duration elapses or ctrl
// reports shutdown, and prints progress plus a final report to stdout
// and stderr exactly as the reference CLI does.
func Run(args Args, cpuParams cpurng.Params, fallbackMixBytes int, ctrl *lifecycle.Controller) error {
	doFIPS := args.SampleSize >= stats.SampleSize
	if !doFIPS {
		fmt.Fprintf(os.Stderr, "Warning: sample_size %d < %d bytes, FIPS 140-2 tests will be skipped\n", args.SampleSize, stats.SampleSize)
	}

	fmt.Fprintln(os.Stderr, "Probing entropy sources...")
	probed := probeSources(cpuParams, fallbackMixBytes, os.Stderr)
	kinds := filterByName(probed, args.Sources)

	if len(kinds) == 0 {
		return merr.NoEntropy("no entropy sources available")
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.name()
	}
	fmt.Fprintf(os.Stderr, "\nStatistical check: sources=[%s], duration=%s, sample_size=%d bytes\n\n",
		joinComma(names), formatDuration(args.Duration), args.SampleSize)

	entries := make([]sourceStatEntry, len(kinds))
	for i, k := range kinds {
		entries[i] = sourceStatEntry{kind: k, stats: &sourceStats{}}
	}

	start := time.Now()
	deadline := start.Add(args.Duration)
	lastReport := start

	for !ctrl.ShuttingDown() && time.Now().Before(deadline) {
		for i := range entries {
			if ctrl.ShuttingDown() || !time.Now().Before(deadline) {
				break
			}

			sampleStart := time.Now()
			data, err := collectSample(entries[i].kind, args.SampleSize, cpuParams, fallbackMixBytes)
			if err != nil {
				entries[i].stats.errors++
				continue
			}
			elapsed := time.Since(sampleStart)

			s := entries[i].stats
			s.totalSamples++
			s.totalBytes += uint64(len(data))
			s.totalTime += elapsed

			if doFIPS {
				var sample [stats.SampleSize]byte
				copy(sample[:], data)
				fips := stats.FipsSuite(&sample)
				if fips.Monobit.Passed {
					s.fipsMonobitPass++
				}
				if fips.Poker.Passed {
					s.fipsPokerPass++
				}
				if fips.Runs.Passed {
					s.fipsRunsPass++
				}
				if fips.LongRuns.Passed {
					s.fipsLongRunsPass++
				}
				if fips.AllPassed() {
					s.fipsAllPass++
				}
			}

			est := stats.EntropyEstimatesOf(data)
			s.shannonSum += est.Shannon
			s.minEntropySum += est.MinEntropy
			s.chiSquareSum += est.ChiSquare
			s.meanSum += est.Mean
			s.serialCorrSum += est.SerialCorrelation

			if args.ReportInterval > 0 && time.Since(lastReport) >= args.ReportInterval {
				printProgress(os.Stderr, entries, time.Since(start), args.Duration, doFIPS)
				lastReport = time.Now()
			}
		}
	}

	totalElapsed := time.Since(start)
	if ctrl.ShuttingDown() {
		fmt.Fprint(os.Stderr, interruptedMessage(totalElapsed))
	} else {
		fmt.Fprintf(os.Stderr, "\nCompleted %s check\n\n", formatDuration(totalElapsed))
	}

	printFinalReport(os.Stdout, entries, doFIPS)
	return nil
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

package metrics

import "time"

// DaemonMetrics holds the metrics the injection daemon records over
// its lifetime.
type DaemonMetrics struct {
	registry *Registry

	PollsTotal      *Counter
	InjectionsTotal *Counter
	InjectFailures  *Counter
	GenerateFailures *Counter
	BytesInjected   *Counter

	EntropyAvail  *Gauge
	UptimeSeconds *Gauge

	GenerateDuration *Histogram
}

// NewDaemonMetrics creates and registers the daemon's metrics against
// registry.
func NewDaemonMetrics(registry *Registry) *DaemonMetrics {
	return &DaemonMetrics{
		registry: registry,

		PollsTotal: registry.RegisterCounter(
			"polls_total",
			"Total number of entropy_avail polls performed",
			nil,
		),
		InjectionsTotal: registry.RegisterCounter(
			"injections_total",
			"Total number of successful RNDADDENTROPY injections",
			nil,
		),
		InjectFailures: registry.RegisterCounter(
			"inject_failures_total",
			"Total number of failed RNDADDENTROPY injections",
			nil,
		),
		GenerateFailures: registry.RegisterCounter(
			"generate_failures_total",
			"Total number of failed fallback generation attempts",
			nil,
		),
		BytesInjected: registry.RegisterCounter(
			"bytes_injected_total",
			"Total number of entropy bytes injected into the kernel pool",
			nil,
		),

		EntropyAvail: registry.RegisterGauge(
			"entropy_avail_bits",
			"Last observed value of /proc/sys/kernel/random/entropy_avail",
			nil,
		),
		UptimeSeconds: registry.RegisterGauge(
			"uptime_seconds",
			"Seconds since the daemon started",
			nil,
		),

		GenerateDuration: registry.RegisterHistogram(
			"generate_duration_seconds",
			"Duration of fallback entropy generation",
			nil,
			DurationBuckets,
		),
	}
}

// RecordPoll records one entropy_avail poll and its observed value.
func (m *DaemonMetrics) RecordPoll(avail uint32) {
	m.PollsTotal.Inc()
	m.EntropyAvail.Set(int64(avail))
}

// RecordInjection records a successful injection of n bytes.
func (m *DaemonMetrics) RecordInjection(n int) {
	m.InjectionsTotal.Inc()
	m.BytesInjected.Add(uint64(n))
}

// RecordInjectFailure records a failed RNDADDENTROPY call.
func (m *DaemonMetrics) RecordInjectFailure() {
	m.InjectFailures.Inc()
}

// RecordGenerateFailure records a failed fallback generation attempt.
func (m *DaemonMetrics) RecordGenerateFailure() {
	m.GenerateFailures.Inc()
}

// StartGenerateTimer returns a timer that records the duration of a
// fallback generation call when stopped.
func (m *DaemonMetrics) StartGenerateTimer() *HistogramTimer {
	return m.GenerateDuration.Timer()
}

// SetUptime sets the uptime gauge from the daemon's start time.
func (m *DaemonMetrics) SetUptime(start time.Time) {
	m.UptimeSeconds.Set(int64(time.Since(start).Seconds()))
}

package kerneldaemon

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mixrand/internal/health"
	"mixrand/internal/logging"
	"mixrand/internal/metrics"
)

// observability bundles the metrics registry and health checker the
// daemon exposes over HTTP when MetricsAddr is set.
type observability struct {
	registry *metrics.Registry
	daemon   *metrics.DaemonMetrics
	checker  *health.Checker
	server   *http.Server
	start    time.Time
}

func newObservability() *observability {
	registry := metrics.NewRegistry("mixrand", "daemon")
	return &observability{
		registry: registry,
		daemon:   metrics.NewDaemonMetrics(registry),
		checker:  health.NewChecker(),
		start:    time.Now(),
	}
}

// serve starts the HTTP endpoint in the background if addr is
// non-empty. It returns immediately; errors are logged, not returned,
// since a failed metrics endpoint should never take down the
// injection loop itself.
func (o *observability) serve(addr string, logger *logging.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", o.registry.HTTPHandler())
	mux.Handle("/livez", o.checker.LivenessHandler())
	mux.Handle("/readyz", o.checker.ReadinessHandler())
	mux.Handle("/healthz", o.checker.HealthHandler())

	o.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := o.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logf(logger, slog.LevelWarn, "metrics endpoint stopped: %s", err)
		}
	}()
	logf(logger, slog.LevelInfo, "metrics endpoint listening on %s", addr)
}

func (o *observability) shutdown() {
	if o.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	o.server.Shutdown(ctx)
}

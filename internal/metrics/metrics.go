// Package metrics provides Prometheus metrics for alloctrack analysis runs.
// They are pushed to a Pushgateway after one-shot commands and served over
// HTTP while the MCP server is running.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/dannybechar/allocation-tracker/schema"
)

const namespace = "alloctrack"

// Registry is the custom prometheus registry for alloctrack.
var Registry = prometheus.NewRegistry()

// factory registers metrics to Registry directly.
var factory = promauto.With(Registry)

// RunsTotal counts completed analysis runs.
var RunsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "analysis_runs_total",
	Help:      "Total number of completed analysis runs",
})

// ExceptionsTotal counts reported exceptions by kind across runs.
var ExceptionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "exceptions_total",
	Help:      "Total exceptions reported, by kind",
}, []string{"kind"})

// ExceptionsLastRun holds the exception counts of the most recent run.
var ExceptionsLastRun = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "exceptions_last_run",
	Help:      "Exceptions reported by the most recent run, by kind",
}, []string{"kind"})

// EmployeesAnalyzed holds the number of employees in the most recent run.
var EmployeesAnalyzed = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "employees_analyzed",
	Help:      "Number of employees considered by the most recent run",
})

// AnalysisDurationSeconds tracks the time spent in the analyzer.
var AnalysisDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "analysis_duration_seconds",
	Help:      "Time taken to compute exceptions",
	Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
})

// SnapshotLoadDurationSeconds tracks the time spent loading entities from the store.
var SnapshotLoadDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "snapshot_load_duration_seconds",
	Help:      "Time taken to load employees, commitments, clients and projects",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
})

// TrackingFailuresTotal counts run history writes that failed.
var TrackingFailuresTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tracking_failures_total",
	Help:      "Run history writes that failed and were skipped",
})

// RecordRun updates the run metrics for one finished analysis.
func RecordRun(exceptions []schema.Exception, employees int, duration time.Duration) {
	RunsTotal.Inc()
	EmployeesAnalyzed.Set(float64(employees))
	AnalysisDurationSeconds.Observe(duration.Seconds())

	ExceptionsLastRun.Reset()
	for kind := range schema.ValidExceptionKinds {
		ExceptionsLastRun.WithLabelValues(string(kind)).Set(0)
	}
	for _, e := range exceptions {
		ExceptionsTotal.WithLabelValues(string(e.Kind)).Inc()
		ExceptionsLastRun.WithLabelValues(string(e.Kind)).Inc()
	}
}

// Push sends the registry to a Pushgateway under job.
func Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

// Handler returns the /metrics handler for Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

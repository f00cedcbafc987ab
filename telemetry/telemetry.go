package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by the validation engine.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline for every finding.
type Collector interface {
	IncFinding(severity, code string)
	ObserveRun(outcome string, d time.Duration)
	IncHotReload(file string)
}

// Run outcomes reported through ObserveRun.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncFinding(string, string)        {}
func (noopCollector) ObserveRun(string, time.Duration) {}
func (noopCollector) IncHotReload(string)              {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	findings   *prometheus.CounterVec
	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	hotReloads *prometheus.CounterVec
}

var (
	findingCounter        *prometheus.CounterVec
	findingCounterLock    sync.Mutex
	runCounter            *prometheus.CounterVec
	runCounterLock        sync.Mutex
	durationHistogram     *prometheus.HistogramVec
	durationHistogramLock sync.Mutex
	hotReloadCounter      *prometheus.CounterVec
	hotReloadCounterLock  sync.Mutex
)

// NewPrometheusCollector registers the required metrics with the provided registerer.
// Metrics registered by an earlier call are reused.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	findings, err := ensure(&findingCounterLock, &findingCounter, reg, func() *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecunet_validation_findings_total",
			Help: "Number of validation findings per severity and code.",
		}, []string{"severity", "code"})
	})
	if err != nil {
		return nil, err
	}
	runs, err := ensure(&runCounterLock, &runCounter, reg, func() *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecunet_validation_runs_total",
			Help: "Number of validation runs per outcome.",
		}, []string{"outcome"})
	})
	if err != nil {
		return nil, err
	}
	duration, err := ensure(&durationHistogramLock, &durationHistogram, reg, func() *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecunet_validation_duration_seconds",
			Help:    "Duration of validation runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"outcome"})
	})
	if err != nil {
		return nil, err
	}
	hotReloads, err := ensure(&hotReloadCounterLock, &hotReloadCounter, reg, func() *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecunet_config_hot_reload_total",
			Help: "Number of re-validations triggered per configuration source file.",
		}, []string{"file"})
	})
	if err != nil {
		return nil, err
	}
	return &PrometheusCollector{
		findings:   findings,
		runs:       runs,
		duration:   duration,
		hotReloads: hotReloads,
	}, nil
}

// ensure registers the metric built by create once per process. A metric
// already known to reg is adopted.
func ensure[T prometheus.Collector](lock *sync.Mutex, slot *T, reg prometheus.Registerer, create func() T) (T, error) {
	lock.Lock()
	defer lock.Unlock()
	var zero T
	if any(*slot) != any(zero) {
		return *slot, nil
	}
	metric := create()
	if err := reg.Register(metric); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return zero, err
		}
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return zero, err
		}
		metric = existing
	}
	*slot = metric
	return metric, nil
}

// IncFinding counts one reported finding.
func (p *PrometheusCollector) IncFinding(severity, code string) {
	if p == nil || p.findings == nil {
		return
	}
	p.findings.WithLabelValues(severity, code).Inc()
}

// ObserveRun records the outcome and duration of a validation run.
func (p *PrometheusCollector) ObserveRun(outcome string, d time.Duration) {
	if p == nil || p.runs == nil || p.duration == nil {
		return
	}
	p.runs.WithLabelValues(outcome).Inc()
	p.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncHotReload increments the counter for the provided file path.
func (p *PrometheusCollector) IncHotReload(file string) {
	if p == nil || p.hotReloads == nil {
		return
	}
	p.hotReloads.WithLabelValues(file).Inc()
}

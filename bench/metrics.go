package bench

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "zkbench"

// Metrics records benchmark timings. A nil *Metrics records nothing.
type Metrics struct {
	proveSeconds  *prometheus.HistogramVec
	verifySeconds *prometheus.HistogramVec
	perIteration  *prometheus.GaugeVec
	iterations    *prometheus.CounterVec
	failures      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		proveSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Name:      "prove_seconds",
			Help:      "Time to prove one workload invocation",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"op", "backend"}),
		verifySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Name:      "verify_seconds",
			Help:      "Time to verify one workload proof",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"op", "backend"}),
		perIteration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "prove_seconds_per_iteration",
			Help:      "Proving time of the last run divided by its repeat count",
		}, []string{"op", "backend"}),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "iterations_total",
			Help:      "Job entries proved",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "failures_total",
			Help:      "Workload runs that failed, by stage",
		}, []string{"op", "stage"}),
	}
	for _, c := range []prometheus.Collector{m.proveSeconds, m.verifySeconds, m.perIteration, m.iterations, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeProve(op, backend string, d time.Duration, iterations uint32) {
	if m == nil {
		return
	}
	m.proveSeconds.WithLabelValues(op, backend).Observe(d.Seconds())
	m.iterations.WithLabelValues(op).Add(float64(iterations))
	if iterations > 0 {
		m.perIteration.WithLabelValues(op, backend).Set(d.Seconds() / float64(iterations))
	}
}

func (m *Metrics) observeVerify(op, backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.verifySeconds.WithLabelValues(op, backend).Observe(d.Seconds())
}

func (m *Metrics) fail(op, stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op, stage).Inc()
}

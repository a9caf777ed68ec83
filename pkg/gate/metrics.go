package gate

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "intakegate"

// Metrics are the gate's Prometheus collectors.
type Metrics struct {
	files    *prometheus.CounterVec
	rowsIn   prometheus.Counter
	rowsOut  prometheus.Counter
	imputed  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_total",
			Help:      "Files processed, by outcome (success or failure kind).",
		}, []string{"outcome"}),
		rowsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_read_total",
			Help:      "Rows read from validated source files.",
		}),
		rowsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_written_total",
			Help:      "Rows written to cleaned files.",
		}),
		imputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "imputed_cells_total",
			Help:      "Missing cells filled, by column.",
		}, []string{"column"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "process_duration_seconds",
			Help:      "Time spent processing one file.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.files, m.rowsIn, m.rowsOut, m.imputed, m.duration)
	}
	return m
}

func (m *Metrics) observe(r Result, seconds float64) {
	outcome := "success"
	if r.Failure != nil {
		outcome = string(r.Failure.Kind)
	}
	m.files.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(seconds)
	if s := r.Summary; s != nil {
		m.rowsIn.Add(float64(s.RowsIn))
		m.rowsOut.Add(float64(s.RowsOut))
		for col, n := range s.Imputed {
			m.imputed.WithLabelValues(col).Add(float64(n))
		}
	}
}

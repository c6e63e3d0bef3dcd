package convert

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for conversions. A nil *Metrics records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	conversions *prometheus.CounterVec   // By input_format, output_format and status (ok/error)
	mappings    *prometheus.CounterVec   // By output_format
	warnings    *prometheus.CounterVec   // By kind
	duration    *prometheus.HistogramVec // By input_format
}

// NewMetrics creates conversion metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semmap",
			Subsystem: "convert",
			Name:      "conversions_total",
			Help:      "Total number of file conversions",
		}, []string{"input_format", "output_format", "status"}),

		mappings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semmap",
			Subsystem: "convert",
			Name:      "mappings_total",
			Help:      "Total number of mappings written",
		}, []string{"output_format"}),

		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semmap",
			Subsystem: "convert",
			Name:      "warnings_total",
			Help:      "Total number of conversion warnings",
		}, []string{"kind"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "semmap",
			Subsystem: "convert",
			Name:      "duration_seconds",
			Help:      "Conversion duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"input_format"}),
	}

	m.registry.MustRegister(m.conversions, m.mappings, m.warnings, m.duration)
	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) record(res *Result, err error) {
	if m == nil || res == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.conversions.WithLabelValues(res.InputFormat, res.OutputFormat, status).Inc()
	m.duration.WithLabelValues(res.InputFormat).Observe(res.Duration.Seconds())
	if err == nil {
		m.mappings.WithLabelValues(res.OutputFormat).Add(float64(res.Mappings))
	}
	for _, w := range res.Warnings {
		m.warnings.WithLabelValues(string(w.Kind)).Inc()
	}
}

// WriteTextfile writes the current values in the text exposition format,
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

package gaucho

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the Prometheus metrics of the module. Every hook is
// nil-safe so unmonitored use needs no setup at all.
type Collector struct {
	RowsRead       *prometheus.CounterVec
	RowsWritten    *prometheus.CounterVec
	SubprocessRuns *prometheus.CounterVec
	OpDurations    *prometheus.HistogramVec
}

// NewCollector registers the module metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gaucho_rows_read_total",
			Help: "Records read into frames, labeled by source kind.",
		}, []string{"source"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gaucho_rows_written_total",
			Help: "Records written out of frames, labeled by sink kind.",
		}, []string{"sink"}),
		SubprocessRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gaucho_subprocess_runs_total",
			Help: "External conversion tool invocations, labeled by outcome.",
		}, []string{"outcome"}),
		OpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gaucho_operation_duration_seconds",
			Help:    "Latency of library operations.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"operation"}),
	}
	for _, m := range []prometheus.Collector{c.RowsRead, c.RowsWritten, c.SubprocessRuns, c.OpDurations} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Timed starts a duration observation for op; the returned func stops it.
func (c *Collector) Timed(op string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.OpDurations.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) addRead(source string, n int) {
	if c != nil {
		c.RowsRead.WithLabelValues(source).Add(float64(n))
	}
}

func (c *Collector) addWritten(sink string, n int) {
	if c != nil {
		c.RowsWritten.WithLabelValues(sink).Add(float64(n))
	}
}

func (c *Collector) addSubprocess(outcome string) {
	if c != nil {
		c.SubprocessRuns.WithLabelValues(outcome).Inc()
	}
}

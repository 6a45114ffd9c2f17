package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics receives one call per completed entry operation.
type Metrics interface {
	IncHit(cat Category)
	IncMiss(cat Category)
	IncWrite(cat Category)
	IncBlank(cat Category)
}

type nopMetrics struct{}

func (nopMetrics) IncHit(Category)   {}
func (nopMetrics) IncMiss(Category)  {}
func (nopMetrics) IncWrite(Category) {}
func (nopMetrics) IncBlank(Category) {}

const (
	namespace        = "diffcache"
	entrySubsystem   = "entry"
	categoryLabelKey = "category"
)

// PromMetrics counts cache operations per category in Prometheus.
type PromMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	writes *prometheus.CounterVec
	blanks *prometheus.CounterVec
}

// NewPromMetrics creates the counters and registers them with reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	newCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: entrySubsystem,
			Name:      name,
			Help:      help,
		}, []string{categoryLabelKey})
	}
	m := &PromMetrics{
		hits:   newCounter("hits_total", "Number of entries retrieved"),
		misses: newCounter("misses_total", "Number of retrievals of absent or blank entries"),
		writes: newCounter("writes_total", "Number of payloads saved"),
		blanks: newCounter("blanks_total", "Number of blank entries saved"),
	}
	reg.MustRegister(m.hits, m.misses, m.writes, m.blanks)
	return m
}

func (m *PromMetrics) IncHit(cat Category) {
	m.hits.With(prometheus.Labels{categoryLabelKey: cat.String()}).Inc()
}

func (m *PromMetrics) IncMiss(cat Category) {
	m.misses.With(prometheus.Labels{categoryLabelKey: cat.String()}).Inc()
}

func (m *PromMetrics) IncWrite(cat Category) {
	m.writes.With(prometheus.Labels{categoryLabelKey: cat.String()}).Inc()
}

func (m *PromMetrics) IncBlank(cat Category) {
	m.blanks.With(prometheus.Labels{categoryLabelKey: cat.String()}).Inc()
}

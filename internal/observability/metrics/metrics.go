package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake flow.
type LeadMetrics struct {
	intakeTotal   *prometheus.CounterVec
	notifyLatency *prometheus.HistogramVec
	purgeDeleted  *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verifycheck",
			Subsystem: "leads",
			Name:      "intake_total",
			Help:      "Total lead form submissions by kind and outcome",
		}, []string{"kind", "outcome"}),
		notifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "verifycheck",
			Subsystem: "leads",
			Name:      "notify_latency_seconds",
			Help:      "Latency of lead notification sends",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "status"}),
		purgeDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "verifycheck",
			Subsystem: "leads",
			Name:      "purge_deleted_total",
			Help:      "Total leads removed by retention purges",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.intakeTotal, m.notifyLatency, m.purgeDeleted)
	return m
}

func (m *LeadMetrics) ObserveIntake(kind, outcome string) {
	if m == nil {
		return
	}
	m.intakeTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *LeadMetrics) ObserveNotifyLatency(kind, status string, seconds float64) {
	if m == nil {
		return
	}
	m.notifyLatency.WithLabelValues(kind, status).Observe(seconds)
}

func (m *LeadMetrics) ObservePurge(kind string, deleted int64) {
	if m == nil {
		return
	}
	m.purgeDeleted.WithLabelValues(kind).Add(float64(deleted))
}

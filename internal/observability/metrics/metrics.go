package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the lead-submission pipeline.
type IntakeMetrics struct {
	submissionsTotal    *prometheus.CounterVec
	classificationTotal *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		classificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "intake",
			Name:      "classification_total",
			Help:      "Classification attempts by status",
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "intake",
			Name:      "notifications_total",
			Help:      "Lead alert notifications by status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.classificationTotal, m.notificationsTotal)
	return m
}

// ObserveSubmission records a submission outcome: stored, invalid_json,
// method_not_allowed, config_missing, or storage_failed.
func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveClassification records a classification attempt: ok, failed, or skipped.
func (m *IntakeMetrics) ObserveClassification(status string) {
	if m == nil {
		return
	}
	m.classificationTotal.WithLabelValues(status).Inc()
}

// ObserveNotification records an alert attempt: ok, failed, or skipped.
func (m *IntakeMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

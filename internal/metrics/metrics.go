package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the signup gateway
type Metrics struct {
	OTPDispatches  *prometheus.CounterVec
	OTPValidations *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	PlanFetches    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OTPDispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_otp_dispatches_total",
			Help: "OTP dispatch attempts by channel and result",
		}, []string{"channel", "result"}),
		OTPValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_otp_validations_total",
			Help: "OTP validation calls by channel and verdict",
		}, []string{"channel", "result"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Registration submissions by result",
		}, []string{"result"}),
		PlanFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "club_plan_fetches_total",
			Help: "Club plan lookups by source",
		}, []string{"source"}),
	}
}

// NewNop returns collectors bound to a throwaway registry. Useful for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveDispatch(channel, result string) {
	m.OTPDispatches.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) ObserveValidation(channel, result string) {
	m.OTPValidations.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) ObserveSubmission(result string) {
	m.Submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePlanFetch(source string) {
	m.PlanFetches.WithLabelValues(source).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the check-in credential domain.
// All methods are safe on a nil receiver so services can run unmetered.
type Metrics struct {
	Issued          prometheus.Counter
	Redeemed        prometheus.Counter
	RedeemRejected  *prometheus.CounterVec
	RedeemConflicts prometheus.Counter
	Toggled         prometheus.Counter
	RedeemDuration  prometheus.Histogram
	CleanupDeleted  prometheus.Counter
}

// New creates and registers all check-in metrics.
func New() *Metrics {
	return &Metrics{
		Issued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brigade_checkin_codes_issued_total",
			Help: "Total number of check-in credentials issued",
		}),
		Redeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brigade_checkin_codes_redeemed_total",
			Help: "Total number of successful redemptions",
		}),
		RedeemRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brigade_checkin_redeem_rejected_total",
			Help: "Total number of rejected redemption attempts, labeled by reason",
		}, []string{"reason"}),
		RedeemConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brigade_checkin_redeem_conflicts_total",
			Help: "Total number of lost compare-and-swap races during redemption",
		}),
		Toggled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brigade_checkin_codes_toggled_total",
			Help: "Total number of administrative enable/disable transitions",
		}),
		RedeemDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "brigade_checkin_redeem_duration_seconds",
			Help:    "Duration of redemption operations (scan critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CleanupDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brigade_checkin_cleanup_deleted_total",
			Help: "Total number of expired credentials purged by the cleanup worker",
		}),
	}
}

func (m *Metrics) IncIssued() {
	if m == nil {
		return
	}
	m.Issued.Inc()
}

func (m *Metrics) IncRedeemed() {
	if m == nil {
		return
	}
	m.Redeemed.Inc()
}

func (m *Metrics) IncRedeemRejected(reason string) {
	if m == nil {
		return
	}
	m.RedeemRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncRedeemConflict() {
	if m == nil {
		return
	}
	m.RedeemConflicts.Inc()
}

func (m *Metrics) IncToggled() {
	if m == nil {
		return
	}
	m.Toggled.Inc()
}

func (m *Metrics) ObserveRedeem(start time.Time) {
	if m == nil {
		return
	}
	m.RedeemDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddCleanupDeleted(n int) {
	if m == nil {
		return
	}
	m.CleanupDeleted.Add(float64(n))
}

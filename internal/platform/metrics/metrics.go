package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	VerificationsStarted    prometheus.Counter
	VerificationsClassified *prometheus.CounterVec
	UploadsFailed           prometheus.Counter
	RecordFetchFailures     prometheus.Counter
	ExportsRequested        *prometheus.CounterVec
	AdminLogins             *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VerificationsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycvault_verifications_started_total",
			Help: "Total number of identity drafts accepted into the workflow",
		}),
		VerificationsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycvault_verifications_classified_total",
			Help: "Total number of verifications classified, by risk level",
		}, []string{"risk_level"}),
		UploadsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycvault_uploads_failed_total",
			Help: "Total number of document submissions that failed at the scoring engine",
		}),
		RecordFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycvault_record_fetch_failures_total",
			Help: "Total number of record snapshot fetches that degraded to empty",
		}),
		ExportsRequested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycvault_exports_requested_total",
			Help: "Total number of CSV exports requested, by category",
		}, []string{"category"}),
		AdminLogins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycvault_admin_logins_total",
			Help: "Total number of admin login attempts, by result",
		}, []string{"result"}),
	}
}
